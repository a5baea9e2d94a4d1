package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mocksmith/mocksmith/internal/clock"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyFormat = "quota:gen:%s:%s"

type Params struct {
	fx.In

	Log    *zap.Logger
	Clock  clock.Clock
	Store  quotadomain.CounterStore
	Limits quotadomain.LimitSource
}

type Service struct {
	log    *zap.Logger
	clock  clock.Clock
	store  quotadomain.CounterStore
	limits quotadomain.LimitSource
}

func New(p Params) quotadomain.Service {
	return &Service{
		log:    p.Log.Named("quota.service"),
		clock:  p.Clock,
		store:  p.Store,
		limits: p.Limits,
	}
}

func (s *Service) Check(ctx context.Context, identifier string, authenticated, bypass bool) quotadomain.Allowance {
	if bypass {
		return quotadomain.Allowance{
			Allowed:   true,
			Limit:     quotadomain.Unlimited,
			Remaining: quotadomain.Unlimited,
			ResetAt:   0,
		}
	}

	limit := s.limitFor(authenticated)
	resetAt := nextUTCMidnight(s.clock.Now()).Unix()

	count, err := s.store.Get(ctx, s.key(identifier))
	if err != nil {
		// Fail open: an infrastructure outage must not block the product,
		// but the caller's telemetry gets a degraded marker.
		s.log.Warn("quota counter store unreachable, failing open",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return quotadomain.Allowance{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetAt:   resetAt,
			Degraded:  true,
		}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return quotadomain.Allowance{
		Allowed:   count < limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func (s *Service) Increment(ctx context.Context, identifier string) {
	now := s.clock.Now()
	ttl := nextUTCMidnight(now).Sub(now)
	if _, err := s.store.Increment(ctx, s.key(identifier), ttl); err != nil {
		s.log.Warn("quota increment failed",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
	}
}

func (s *Service) Current(ctx context.Context, identifier string, authenticated bool) quotadomain.Usage {
	limit := s.limitFor(authenticated)
	resetAt := nextUTCMidnight(s.clock.Now()).Unix()

	count, err := s.store.Get(ctx, s.key(identifier))
	if err != nil {
		s.log.Warn("quota counter store unreachable on read",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return quotadomain.Usage{
			Limit:     limit,
			Remaining: limit,
			ResetAt:   resetAt,
			Degraded:  true,
		}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return quotadomain.Usage{
		Used:      count,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func (s *Service) limitFor(authenticated bool) int64 {
	limits := s.limits()
	if authenticated {
		return limits.APIKey
	}
	return limits.Anonymous
}

// key bakes the UTC date into the storage key so day rollover is simply a
// fresh key; stale counters expire on their own.
func (s *Service) key(identifier string) string {
	return fmt.Sprintf(keyFormat, identifier, s.clock.Now().UTC().Format("2006-01-02"))
}

func nextUTCMidnight(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}
