package service

import (
	"context"
	"errors"

	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	"github.com/mocksmith/mocksmith/internal/config"
	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
	"github.com/mocksmith/mocksmith/internal/normalizer"
	"github.com/mocksmith/mocksmith/internal/observability/logger"
	"github.com/mocksmith/mocksmith/internal/observability/metrics"
	"github.com/mocksmith/mocksmith/internal/provider"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errEmptyCompletion = errors.New("provider returned no usable content")

// Dispatcher performs the upstream provider call.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *provider.Request) ([]byte, error)
}

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Quota      quotadomain.Service
	Keys       apikeydomain.Service
	Dispatcher Dispatcher
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	cfg        config.Config
	log        *zap.Logger
	quota      quotadomain.Service
	keys       apikeydomain.Service
	dispatcher Dispatcher
	metrics    *metrics.Metrics
}

func New(p Params) generatedomain.Service {
	return &Service{
		cfg:        p.Config,
		log:        p.Log.Named("generate.service"),
		quota:      p.Quota,
		keys:       p.Keys,
		dispatcher: p.Dispatcher,
		metrics:    p.Metrics,
	}
}

func (s *Service) Generate(ctx context.Context, caller generatedomain.Caller, req generatedomain.Request) (*generatedomain.Result, error) {
	log := logger.WithContext(ctx, s.log)

	if err := req.Normalize(); err != nil {
		return nil, err
	}

	bypass := req.Bypass()
	allowance := s.quota.Check(ctx, caller.Identifier, caller.Authenticated, bypass)
	if allowance.Degraded {
		s.metrics.RecordQuotaDegraded(ctx, scopeOf(caller))
	}
	if !allowance.Allowed {
		s.metrics.RecordQuotaDenied(ctx, scopeOf(caller))
		return nil, &generatedomain.QuotaExceededError{
			Usage: s.usageSnapshot(ctx, caller, bypass),
		}
	}

	params := s.providerParams(&req)
	profile := provider.Classify(params.Model, params.BaseURL)

	preq, err := provider.BuildRequest(profile, params)
	if err != nil {
		return nil, s.failure(ctx, caller, profile, bypass, "build", err)
	}

	raw, err := s.dispatcher.Dispatch(ctx, preq)
	if err != nil {
		return nil, s.failure(ctx, caller, profile, bypass, "dispatch", err)
	}

	text := provider.ExtractText(profile, raw)
	if text == "" {
		return nil, s.failure(ctx, caller, profile, bypass, "extract", errEmptyCompletion)
	}

	// The generation succeeded; everything past this point is bookkeeping
	// and must not fail the request.
	if !bypass {
		s.quota.Increment(ctx, caller.Identifier)
	}
	if caller.CredentialID != "" {
		s.keys.RecordUsage(ctx, caller.CredentialID)
	}
	s.metrics.RecordGeneration(ctx, profile.String(), req.Format)

	log.Info("generation complete",
		zap.String("provider", profile.String()),
		zap.String("format", req.Format),
		zap.Int("count", req.Count),
		zap.Bool("bypass", bypass),
	)

	return &generatedomain.Result{
		Data:  normalizer.Clean(req.Format, text),
		Usage: s.usageSnapshot(ctx, caller, bypass),
	}, nil
}

// providerParams resolves request overrides against the configured defaults.
func (s *Service) providerParams(req *generatedomain.Request) provider.Params {
	p := provider.Params{
		APIKey:      s.cfg.Provider.APIKey,
		Model:       s.cfg.Provider.Model,
		BaseURL:     s.cfg.Provider.BaseURL,
		System:      systemPrompt,
		Prompt:      buildPrompt(req),
		Temperature: s.cfg.Provider.Temperature,
		MaxTokens:   s.cfg.Provider.MaxTokens,
		Headers:     req.Headers,
	}
	if req.APIKey != "" {
		p.APIKey = req.APIKey
	}
	if req.Model != "" {
		p.Model = req.Model
	}
	if req.BaseURL != "" {
		p.BaseURL = req.BaseURL
	}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.MaxTokens = *req.MaxTokens
	}
	return p
}

func (s *Service) failure(ctx context.Context, caller generatedomain.Caller, profile provider.Profile, bypass bool, stage string, err error) error {
	s.metrics.RecordGenerationFailure(ctx, profile.String(), stage)
	logger.WithContext(ctx, s.log).Warn("generation failed",
		zap.String("provider", profile.String()),
		zap.String("stage", stage),
		zap.Error(err),
	)
	return &generatedomain.GenerationError{
		Usage: s.usageSnapshot(ctx, caller, bypass),
		Err:   err,
	}
}

// usageSnapshot is best effort and used purely for response telemetry.
func (s *Service) usageSnapshot(ctx context.Context, caller generatedomain.Caller, bypass bool) quotadomain.Usage {
	if bypass {
		return quotadomain.Usage{
			Limit:     quotadomain.Unlimited,
			Remaining: quotadomain.Unlimited,
		}
	}
	return s.quota.Current(ctx, caller.Identifier, caller.Authenticated)
}

func scopeOf(caller generatedomain.Caller) string {
	if caller.Authenticated {
		return "api_key"
	}
	return "anonymous"
}
