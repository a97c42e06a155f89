package memory

import (
	"sync"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/realm"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]realm.Account
	sessions map[string]ports.SessionRecord
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]realm.Account),
		sessions: make(map[string]ports.SessionRecord),
	}
}

func (s *Store) SeedAccount(acc realm.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.Name] = acc
}
