package activation

import "github.com/kivu-pay/kivu_pay/internal/account"

// OutstandingCode is a test helper that reads the outstanding code for an
// address when using the in-memory code register.
func OutstandingCode(reg CodeRegister, email string) (string, bool) {
	mem, ok := reg.(*memoryCodeRegister)
	if !ok {
		return "", false
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	code, ok := mem.codes[email]
	return code, ok
}

// StagedCandidate is a test helper that reads the staged candidate for an
// address from a coordinator without removing it.
func StagedCandidate(c *Coordinator, email string) (account.Account, bool) {
	return c.staging.Get(email)
}
