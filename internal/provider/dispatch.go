package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mocksmith/mocksmith/internal/config"
	"github.com/mocksmith/mocksmith/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxErrorBodyBytes = 2048

// ProviderError reports a failed upstream call. Body holds a truncated copy
// of the upstream response so operators can see the provider's own error
// message without the service ever echoing it to callers.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider call failed: %v", e.Err)
	}
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Dispatcher performs upstream calls with a bounded timeout and no retries;
// a generation either succeeds on the first attempt or fails the request.
type Dispatcher struct {
	client *http.Client
	log    *zap.Logger
}

type DispatcherParams struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	timeout := p.Config.Provider.DispatchTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
		log:    p.Log,
	}
}

// Dispatch sends the built request and returns the raw response body. Any
// transport failure or non-2xx status comes back as a *ProviderError.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) ([]byte, error) {
	log := logger.WithContext(ctx, d.log)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	httpReq.Header = req.Headers.Clone()

	start := time.Now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		log.Warn("provider dispatch failed",
			zap.String("profile", req.Profile.String()),
			zap.Error(err),
		)
		return nil, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("provider returned error status",
			zap.String("profile", req.Profile.String()),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Body:       truncate(body, maxErrorBodyBytes),
		}
	}

	log.Debug("provider dispatch complete",
		zap.String("profile", req.Profile.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
