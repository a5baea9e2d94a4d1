package domain

import "context"

type Service interface {
	// Check decides whether the identifier may run another generation today.
	// It never returns an error: when the counter store is unreachable the
	// ledger fails open and marks the allowance degraded.
	Check(ctx context.Context, identifier string, authenticated, bypass bool) Allowance
	// Increment records one consumed generation. Failures are logged and
	// swallowed; an uncounted generation beats a broken response.
	Increment(ctx context.Context, identifier string)
	// Current reports today's consumption without an allow/deny decision.
	Current(ctx context.Context, identifier string, authenticated bool) Usage
}
