package item

import "time"

const (
	// StatusPending marks an item record awaiting fulfillment.
	StatusPending = "PENDING"
	// StatusSuccess marks a fulfilled item record.
	StatusSuccess = "SUCCESS"
)

// Record tracks the fulfillment of the items an account requested at registration.
// One record exists per account, keyed by owner phone.
type Record struct {
	ID         string
	OwnerPhone string
	Status     string
	ItemNames  []string
	CreatedAt  time.Time
}
