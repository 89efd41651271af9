package activation

import (
	"context"
	"sync"

	"github.com/kivu-pay/kivu_pay/internal/account"
)

// StagingRegister holds not-yet-committed candidate accounts keyed by email.
// Entries live only until the candidate is promoted to durable storage or
// superseded by a later registration for the same address.
type StagingRegister struct {
	mu      sync.RWMutex
	pending map[string]account.Account
}

// NewStagingRegister builds an empty staging register.
func NewStagingRegister() *StagingRegister {
	return &StagingRegister{pending: make(map[string]account.Account)}
}

// Put stages a candidate, replacing any previous candidate for the same email.
func (s *StagingRegister) Put(acct account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[acct.Email] = acct
}

// Get returns the staged candidate for an email without removing it.
func (s *StagingRegister) Get(email string) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.pending[email]
	return acct, ok
}

// Take removes and returns the staged candidate for an email.
func (s *StagingRegister) Take(email string) (account.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.pending[email]
	if ok {
		delete(s.pending, email)
	}
	return acct, ok
}

// HasReferenceCode reports whether any staged candidate already carries the code.
func (s *StagingRegister) HasReferenceCode(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acct := range s.pending {
		if acct.ReferenceCode == code {
			return true
		}
	}
	return false
}

// CodeRegister holds the outstanding one-time code per email. At most one code
// is outstanding per address; Put replaces any prior code.
type CodeRegister interface {
	// Put records code as the outstanding code for the email.
	Put(ctx context.Context, email, code string) error
	// Consume removes the outstanding code for the email if it matches the
	// submitted one, reporting whether the match succeeded. A consumed code
	// cannot be used again.
	Consume(ctx context.Context, email, code string) (bool, error)
}

type memoryCodeRegister struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewMemoryCodeRegister builds an in-process code register for dev mode and tests.
func NewMemoryCodeRegister() CodeRegister {
	return &memoryCodeRegister{codes: make(map[string]string)}
}

func (r *memoryCodeRegister) Put(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[email] = code
	return nil
}

func (r *memoryCodeRegister) Consume(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[email]
	if !ok || stored != code {
		return false, nil
	}
	delete(r.codes, email)
	return true, nil
}
