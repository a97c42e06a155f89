package gormrepo

import (
	"context"
	"errors"

	"goldraid/internal/adapter/repo/gorm/model"
	"goldraid/internal/app/ports"

	"gorm.io/gorm"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return SessionRepo{db: db}
}

func (r SessionRepo) Create(ctx context.Context, rec ports.SessionRecord) error {
	row := model.Session{
		Token:       rec.Token,
		AccountName: rec.AccountName,
		CreatedAt:   rec.CreatedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r SessionRepo) GetByToken(ctx context.Context, token string) (ports.SessionRecord, error) {
	var row model.Session
	if err := getDBFromCtx(ctx, r.db).Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SessionRecord{}, ports.ErrNotFound
		}
		return ports.SessionRecord{}, err
	}
	return ports.SessionRecord{
		Token:       row.Token,
		AccountName: row.AccountName,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (r SessionRepo) Delete(ctx context.Context, token string) error {
	res := getDBFromCtx(ctx, r.db).Where("token = ?", token).Delete(&model.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}
