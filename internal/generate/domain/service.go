package domain

import (
	"context"
	"fmt"

	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
)

type Service interface {
	// Generate runs the full pipeline: validate, check quota, dispatch to the
	// upstream provider, record usage, and normalize the output.
	Generate(ctx context.Context, caller Caller, req Request) (*Result, error)
}

// Caller is the resolved identity for one generation request: either an
// authenticated account or an anonymous address-scoped identifier.
type Caller struct {
	Identifier    string
	Authenticated bool
	CredentialID  string
}

// Result is a successful generation together with quota telemetry.
type Result struct {
	Data  string
	Usage quotadomain.Usage
}

// QuotaExceededError carries the usage snapshot so the caller's quota
// display stays accurate on the deny path.
type QuotaExceededError struct {
	Usage quotadomain.Usage
}

func (e *QuotaExceededError) Error() string {
	return "daily generation limit reached"
}

// GenerationError is the terminal failure of a generation attempt. Usage is
// a best-effort pre-failure snapshot, attached so failure responses can
// still render remaining quota.
type GenerationError struct {
	Usage quotadomain.Usage
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return "generation failed"
}

func (e *GenerationError) Unwrap() error { return e.Err }
