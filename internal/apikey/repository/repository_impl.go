package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() apikeydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, key *apikeydomain.APIKey) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO api_keys (id, account_id, label, secret_hash, lookup, usage_count, created_at, expires_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key.ID,
		key.AccountID,
		key.Label,
		key.SecretHash,
		key.Lookup,
		key.UsageCount,
		key.CreatedAt,
		key.ExpiresAt,
		key.LastUsedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*apikeydomain.APIKey, error) {
	var key apikeydomain.APIKey
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, label, secret_hash, lookup, usage_count, created_at, expires_at, last_used_at
		 FROM api_keys WHERE id = ?`,
		id,
	).Scan(&key).Error
	if err != nil {
		return nil, err
	}
	if key.ID == "" {
		return nil, nil
	}
	return &key, nil
}

func (r *repo) FindByLookup(ctx context.Context, db *gorm.DB, lookup string) ([]apikeydomain.APIKey, error) {
	var keys []apikeydomain.APIKey
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, label, secret_hash, lookup, usage_count, created_at, expires_at, last_used_at
		 FROM api_keys WHERE lookup = ?`,
		lookup,
	).Scan(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *repo) ListByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID, activeAfter time.Time) ([]apikeydomain.APIKey, error) {
	var keys []apikeydomain.APIKey
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, label, secret_hash, lookup, usage_count, created_at, expires_at, last_used_at
		 FROM api_keys WHERE account_id = ? AND expires_at > ? ORDER BY created_at DESC`,
		accountID,
		activeAfter,
	).Scan(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Exec(`DELETE FROM api_keys WHERE id = ?`, id).Error
}

func (r *repo) RecordUsage(ctx context.Context, db *gorm.DB, id string, usedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE api_keys SET usage_count = usage_count + 1, last_used_at = ? WHERE id = ?`,
		usedAt,
		id,
	).Error
}
