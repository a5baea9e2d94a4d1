package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// APIKey stores hashed API credentials scoped to an account. The plaintext
// secret is never persisted; only the salted PBKDF2 hash is kept.
type APIKey struct {
	ID         string       `gorm:"type:uuid;primaryKey"`
	AccountID  snowflake.ID `gorm:"column:account_id;not null;uniqueIndex:ux_api_keys_account_label"`
	Label      string       `gorm:"type:text;not null;uniqueIndex:ux_api_keys_account_label"`
	SecretHash string       `gorm:"column:secret_hash;type:text;not null"`
	Lookup     string       `gorm:"column:lookup;type:text;not null;index:ix_api_keys_lookup"`
	UsageCount int64        `gorm:"column:usage_count;not null;default:0"`
	CreatedAt  time.Time    `gorm:"not null"`
	ExpiresAt  time.Time    `gorm:"column:expires_at;not null"`
	LastUsedAt *time.Time   `gorm:"column:last_used_at"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }
