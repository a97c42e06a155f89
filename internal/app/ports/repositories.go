package ports

import (
	"context"
	"time"

	"goldraid/internal/domain/realm"
)

type AccountRepository interface {
	GetByName(ctx context.Context, name string) (realm.Account, error)
	// ListByRank returns up to limit accounts ranked fromRank and below, best rank first.
	ListByRank(ctx context.Context, fromRank, limit int) ([]realm.Account, error)
	SaveWithVersion(ctx context.Context, acc realm.Account, expectedVersion int64) error
}

type SessionRecord struct {
	Token       string
	AccountName string
	CreatedAt   time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, session SessionRecord) error
	GetByToken(ctx context.Context, token string) (SessionRecord, error)
	Delete(ctx context.Context, token string) error
}
