package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	"github.com/mocksmith/mocksmith/internal/clock"
	"github.com/mocksmith/mocksmith/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	secretPrefix = "mk_live_"
	secretBytes  = 32
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  apikeydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  apikeydomain.Repository
}

func New(p Params) apikeydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("apikey.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Issue(ctx context.Context, accountID snowflake.ID, label string) (*apikeydomain.SecretResponse, error) {
	if accountID == 0 {
		return nil, apikeydomain.ErrInvalidAccount
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apikeydomain.ErrInvalidLabel
	}

	secret, err := newSecret()
	if err != nil {
		return nil, err
	}
	hash, err := apikeydomain.HashSecret(secret)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	key := &apikeydomain.APIKey{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Label:      label,
		SecretHash: hash,
		Lookup:     apikeydomain.LookupPrefix(secret),
		CreatedAt:  now,
		ExpiresAt:  now.Add(apikeydomain.TTL),
	}

	if err := s.repo.Insert(ctx, s.db, key); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, apikeydomain.ErrDuplicateLabel
		}
		return nil, err
	}

	return &apikeydomain.SecretResponse{
		ID:        key.ID,
		Secret:    secret,
		Label:     key.Label,
		ExpiresAt: key.ExpiresAt,
	}, nil
}

func (s *Service) List(ctx context.Context, accountID snowflake.ID) ([]apikeydomain.Response, error) {
	if accountID == 0 {
		return nil, apikeydomain.ErrInvalidAccount
	}

	items, err := s.repo.ListByAccount(ctx, s.db, accountID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	resp := make([]apikeydomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Revoke(ctx context.Context, accountID snowflake.ID, credentialID string) error {
	if accountID == 0 {
		return apikeydomain.ErrInvalidAccount
	}
	credentialID = strings.TrimSpace(credentialID)
	if credentialID == "" {
		return apikeydomain.ErrNotFound
	}

	key, err := s.repo.FindByID(ctx, s.db, credentialID)
	if err != nil {
		return err
	}
	if key == nil {
		return apikeydomain.ErrNotFound
	}
	if key.AccountID != accountID {
		return apikeydomain.ErrNotOwned
	}
	return s.repo.Delete(ctx, s.db, credentialID)
}

func (s *Service) Validate(ctx context.Context, secret string) (*apikeydomain.Identity, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, nil
	}

	candidates, err := s.repo.FindByLookup(ctx, s.db, apikeydomain.LookupPrefix(secret))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range candidates {
		key := &candidates[i]
		if !apikeydomain.VerifySecret(secret, key.SecretHash) {
			continue
		}
		if !key.ExpiresAt.After(now) {
			return nil, nil
		}
		return &apikeydomain.Identity{AccountID: key.AccountID, CredentialID: key.ID}, nil
	}
	return nil, nil
}

func (s *Service) RecordUsage(ctx context.Context, credentialID string) {
	if strings.TrimSpace(credentialID) == "" {
		return
	}
	if err := s.repo.RecordUsage(ctx, s.db, credentialID, s.clock.Now()); err != nil {
		s.log.Warn("api key usage recording failed",
			zap.String("credential_id", credentialID),
			zap.Error(err),
		)
	}
}

func toResponse(key *apikeydomain.APIKey) apikeydomain.Response {
	return apikeydomain.Response{
		ID:         key.ID,
		Label:      key.Label,
		UsageCount: key.UsageCount,
		CreatedAt:  key.CreatedAt,
		ExpiresAt:  key.ExpiresAt,
		LastUsedAt: key.LastUsedAt,
	}
}

func newSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return secretPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
