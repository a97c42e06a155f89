package gormrepo

import (
	"context"
	"errors"
	"strings"

	"goldraid/internal/adapter/repo/gorm/model"
	"goldraid/internal/app/ports"
	"goldraid/internal/domain/realm"

	"gorm.io/gorm"
)

type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return AccountRepo{db: db}
}

func (r AccountRepo) GetByName(ctx context.Context, name string) (realm.Account, error) {
	var row model.Account
	if err := getDBFromCtx(ctx, r.db).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return realm.Account{}, ports.ErrNotFound
		}
		return realm.Account{}, err
	}
	return toAccount(row), nil
}

func (r AccountRepo) ListByRank(ctx context.Context, fromRank, limit int) ([]realm.Account, error) {
	var rows []model.Account
	err := getDBFromCtx(ctx, r.db).
		Where("ladder_rank >= ?", fromRank).
		Order("ladder_rank ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]realm.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAccount(row))
	}
	return out, nil
}

func (r AccountRepo) SaveWithVersion(ctx context.Context, acc realm.Account, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		row := fromAccount(acc)
		if err := db.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"ladder_rank": int32(acc.Rank),
		"gold":        int64(acc.Gold),
		"chest":       int64(acc.Chest),
		"wear":        int32(acc.Wear),
		"turns":       int32(acc.Turns),
		"version":     acc.Version,
		"updated_at":  acc.UpdatedAt,
	}
	res := db.Model(&model.Account{}).
		Where("name = ? AND version = ?", acc.Name, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func toAccount(row model.Account) realm.Account {
	return realm.Account{
		Name:      row.Name,
		Rank:      int(row.LadderRank),
		Gold:      int(row.Gold),
		Chest:     int(row.Chest),
		Wear:      int(row.Wear),
		Turns:     int(row.Turns),
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt,
	}
}

func fromAccount(acc realm.Account) model.Account {
	return model.Account{
		Name:       acc.Name,
		LadderRank: int32(acc.Rank),
		Gold:       int64(acc.Gold),
		Chest:      int64(acc.Chest),
		Wear:       int32(acc.Wear),
		Turns:      int32(acc.Turns),
		KeySalt:    acc.KeySalt,
		KeyHash:    acc.KeyHash,
		Version:    acc.Version,
		UpdatedAt:  acc.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
