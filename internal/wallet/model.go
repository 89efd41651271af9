package wallet

import "time"

// Wallet holds the stored value balance for an account, keyed by owner phone.
type Wallet struct {
	ID         string
	OwnerPhone string
	Balance    int64
	CreatedAt  time.Time
}
