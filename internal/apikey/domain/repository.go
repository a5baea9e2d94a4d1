package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, key *APIKey) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*APIKey, error)
	FindByLookup(ctx context.Context, db *gorm.DB, lookup string) ([]APIKey, error)
	ListByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID, activeAfter time.Time) ([]APIKey, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
	RecordUsage(ctx context.Context, db *gorm.DB, id string, usedAt time.Time) error
}
