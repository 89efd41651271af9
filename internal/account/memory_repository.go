package account

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryRepository builds an in-memory account store for dev mode and testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[string]Account)}
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (r *memoryRepository) FindByReferenceCode(_ context.Context, code string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acct := range r.accounts {
		if acct.ReferenceCode == code {
			return acct, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *memoryRepository) Save(_ context.Context, acct Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acct.Email] = acct
	return nil
}
