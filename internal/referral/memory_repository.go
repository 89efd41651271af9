package referral

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Referral
}

// NewMemoryRepository constructs an in-memory referral repository for dev mode and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Save(_ context.Context, ref Referral) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, ref)
	return nil
}

func (r *memoryRepository) CountByReferrerPhone(_ context.Context, phone string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, ref := range r.records {
		if ref.ReferrerPhone == phone {
			count++
		}
	}
	return count, nil
}
