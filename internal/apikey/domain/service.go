package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TTL is the absolute lifetime of an issued credential.
const TTL = 90 * 24 * time.Hour

type Service interface {
	// Issue creates a credential and returns the plaintext secret exactly once.
	Issue(ctx context.Context, accountID snowflake.ID, label string) (*SecretResponse, error)
	// List returns the account's unexpired credentials, newest first.
	List(ctx context.Context, accountID snowflake.ID) ([]Response, error)
	// Revoke deletes a credential owned by the account.
	Revoke(ctx context.Context, accountID snowflake.ID, credentialID string) error
	// Validate resolves a secret to its owning identity. It returns (nil, nil)
	// for unknown, malformed, or expired secrets and does not record usage.
	Validate(ctx context.Context, secret string) (*Identity, error)
	// RecordUsage bumps last-used bookkeeping. Best effort; never fails.
	RecordUsage(ctx context.Context, credentialID string)
}

// Identity is the resolved owner of a validated secret.
type Identity struct {
	AccountID    snowflake.ID
	CredentialID string
}

type Response struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	UsageCount int64      `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// SecretResponse carries the plaintext secret. It is never retrievable again.
type SecretResponse struct {
	ID        string    `json:"id"`
	Secret    string    `json:"secret"`
	Label     string    `json:"label"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	ErrInvalidAccount = errors.New("invalid_account")
	ErrInvalidLabel   = errors.New("invalid_label")
	ErrDuplicateLabel = errors.New("duplicate_label")
	ErrNotFound       = errors.New("not_found")
	ErrNotOwned       = errors.New("not_owned")
)
