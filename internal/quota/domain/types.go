package domain

// Unlimited marks an allowance that is not governed by the daily quota, used
// when the caller brings their own upstream provider credentials.
const Unlimited int64 = -1

// Allowance is the outcome of a quota check.
type Allowance struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	// ResetAt is the Unix timestamp of the next UTC midnight, 0 for bypass.
	ResetAt int64
	// Degraded is set when the counter store was unreachable and the check
	// failed open with a best-guess remaining count.
	Degraded bool
}

// Usage is a read-only consumption snapshot for telemetry display.
type Usage struct {
	Used      int64
	Limit     int64
	Remaining int64
	ResetAt   int64
	Degraded  bool
}

// Limits holds the per-day caps, read fresh on every check so they can be
// adjusted operationally.
type Limits struct {
	Anonymous int64
	APIKey    int64
}

// LimitSource yields the current daily limits.
type LimitSource func() Limits
