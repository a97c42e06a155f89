package memory

import (
	"context"

	"goldraid/internal/app/ports"
)

type SessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) SessionRepo {
	return SessionRepo{store: store}
}

func (r SessionRepo) Create(_ context.Context, rec ports.SessionRecord) error {
	if _, exists := r.store.sessions[rec.Token]; exists {
		return ports.ErrConflict
	}
	r.store.sessions[rec.Token] = rec
	return nil
}

func (r SessionRepo) GetByToken(_ context.Context, token string) (ports.SessionRecord, error) {
	rec, ok := r.store.sessions[token]
	if !ok {
		return ports.SessionRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r SessionRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.store.sessions[token]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.sessions, token)
	return nil
}
