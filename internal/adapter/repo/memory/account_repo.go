package memory

import (
	"context"
	"slices"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/realm"
)

type AccountRepo struct {
	store *Store
}

func NewAccountRepo(store *Store) AccountRepo {
	return AccountRepo{store: store}
}

func (r AccountRepo) GetByName(_ context.Context, name string) (realm.Account, error) {
	acc, ok := r.store.accounts[name]
	if !ok {
		return realm.Account{}, ports.ErrNotFound
	}
	return acc, nil
}

func (r AccountRepo) ListByRank(_ context.Context, fromRank, limit int) ([]realm.Account, error) {
	out := make([]realm.Account, 0, limit)
	for _, acc := range r.store.accounts {
		if acc.Rank >= fromRank {
			out = append(out, acc)
		}
	}
	slices.SortFunc(out, func(a, b realm.Account) int { return a.Rank - b.Rank })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r AccountRepo) SaveWithVersion(_ context.Context, acc realm.Account, expectedVersion int64) error {
	current, ok := r.store.accounts[acc.Name]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.accounts[acc.Name] = acc
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.accounts[acc.Name] = acc
	return nil
}
