package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	"github.com/mocksmith/mocksmith/internal/config"
	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	"github.com/stretchr/testify/require"
)

type fakeAPIKeyService struct {
	identity     *apikeydomain.Identity
	validateErr  error
	issued       *apikeydomain.SecretResponse
	issueErr     error
	listed       []apikeydomain.Response
	revokeErr    error
	revokedIDs   []string
	usageRecords []string
}

func (f *fakeAPIKeyService) Issue(ctx context.Context, accountID snowflake.ID, label string) (*apikeydomain.SecretResponse, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	if f.issued != nil {
		return f.issued, nil
	}
	return &apikeydomain.SecretResponse{
		ID:        "cred-1",
		Secret:    "mk_live_secret",
		Label:     label,
		ExpiresAt: time.Now().Add(90 * 24 * time.Hour),
	}, nil
}

func (f *fakeAPIKeyService) List(ctx context.Context, accountID snowflake.ID) ([]apikeydomain.Response, error) {
	return f.listed, nil
}

func (f *fakeAPIKeyService) Revoke(ctx context.Context, accountID snowflake.ID, credentialID string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokedIDs = append(f.revokedIDs, credentialID)
	return nil
}

func (f *fakeAPIKeyService) Validate(ctx context.Context, secret string) (*apikeydomain.Identity, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.identity, nil
}

func (f *fakeAPIKeyService) RecordUsage(ctx context.Context, credentialID string) {
	f.usageRecords = append(f.usageRecords, credentialID)
}

type fakeQuotaService struct {
	usage quotadomain.Usage
}

func (f *fakeQuotaService) Check(ctx context.Context, identifier string, authenticated, bypass bool) quotadomain.Allowance {
	return quotadomain.Allowance{Allowed: true, Limit: f.usage.Limit, Remaining: f.usage.Remaining, ResetAt: f.usage.ResetAt}
}

func (f *fakeQuotaService) Increment(ctx context.Context, identifier string) {}

func (f *fakeQuotaService) Current(ctx context.Context, identifier string, authenticated bool) quotadomain.Usage {
	return f.usage
}

type fakeGenerateService struct {
	result     *generatedomain.Result
	err        error
	calls      int
	lastCaller generatedomain.Caller
	lastReq    generatedomain.Request
}

func (f *fakeGenerateService) Generate(ctx context.Context, caller generatedomain.Caller, req generatedomain.Request) (*generatedomain.Result, error) {
	f.calls++
	f.lastCaller = caller
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type testServer struct {
	server   *Server
	keys     *fakeAPIKeyService
	quota    *fakeQuotaService
	generate *fakeGenerateService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	keys := &fakeAPIKeyService{}
	quota := &fakeQuotaService{usage: quotadomain.Usage{Limit: 200, Remaining: 190, Used: 10, ResetAt: 1767225600}}
	generate := &fakeGenerateService{result: &generatedomain.Result{
		Data:  `[{"a":1}]`,
		Usage: quotadomain.Usage{Limit: 200, Remaining: 189, Used: 11, ResetAt: 1767225600},
	}}

	srv := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{},
		APIKeySvc:   keys,
		QuotaSvc:    quota,
		GenerateSvc: generate,
	})

	return &testServer{server: srv, keys: keys, quota: quota, generate: generate}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	rec := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
