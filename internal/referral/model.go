package referral

import "time"

// Referral records a single bonus credited to a referrer. Append-only; the
// referral count of an account is derived from these rows.
type Referral struct {
	ID            string
	ReferrerPhone string
	Bonus         int64
	CreatedAt     time.Time
}
