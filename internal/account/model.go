package account

import "time"

const (
	// StatusPending marks an account awaiting code verification.
	StatusPending = "PENDING"
	// StatusActive marks a fully activated account.
	StatusActive = "ACTIVE"
)

// Account represents a customer account, either staged for activation or durable.
type Account struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	PasswordHash   []byte
	Status         string
	ReferenceCode  string
	ReferredByCode string
	ItemNames      []string
	ReferralCount  int
	CreatedAt      time.Time
}
