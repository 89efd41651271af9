package wallet

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	wallets map[string]Wallet
}

// NewMemoryRepository constructs an in-memory wallet repository for dev mode and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{wallets: make(map[string]Wallet)}
}

func (r *memoryRepository) FindByOwnerPhone(_ context.Context, phone string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[phone]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (r *memoryRepository) Save(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.OwnerPhone] = w
	return nil
}
