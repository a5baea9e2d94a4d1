package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams() Params {
	return Params{
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		System:      "You generate mock data.",
		Prompt:      "Generate 3 users.",
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

func decodeBody(t *testing.T, req *Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	return body
}

func TestBuildRequestOpenAI(t *testing.T) {
	req, err := BuildRequest(ProfileOpenAI, baseParams())
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/chat/completions", req.URL)
	assert.Equal(t, "Bearer sk-test", req.Headers.Get("Authorization"))
	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))

	body := decodeBody(t, req)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestBuildRequestAnthropic(t *testing.T) {
	p := baseParams()
	p.Model = "claude-sonnet-4"
	req, err := BuildRequest(ProfileAnthropic, p)
	require.NoError(t, err)

	assert.Equal(t, "https://api.anthropic.com/v1/messages", req.URL)
	assert.Equal(t, "sk-test", req.Headers.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", req.Headers.Get("anthropic-version"))
	assert.Empty(t, req.Headers.Get("Authorization"))

	body := decodeBody(t, req)
	assert.Equal(t, "You generate mock data.", body["system"])
	assert.Equal(t, float64(4096), body["max_tokens"])
}

func TestBuildRequestGoogle(t *testing.T) {
	p := baseParams()
	p.Model = "gemini-2.0-flash"
	req, err := BuildRequest(ProfileGoogle, p)
	require.NoError(t, err)

	assert.Equal(t,
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent?key=sk-test",
		req.URL)
	// Google carries the credential in the query string, not a header.
	assert.Empty(t, req.Headers.Get("Authorization"))
	assert.Empty(t, req.Headers.Get("x-api-key"))

	body := decodeBody(t, req)
	assert.Contains(t, body, "contents")
	assert.Contains(t, body, "systemInstruction")
	cfg := body["generationConfig"].(map[string]any)
	assert.Equal(t, float64(4096), cfg["maxOutputTokens"])
}

func TestBuildRequestCohere(t *testing.T) {
	p := baseParams()
	p.Model = "command-r-plus"
	req, err := BuildRequest(ProfileCohere, p)
	require.NoError(t, err)

	assert.Equal(t, "https://api.cohere.com/v1/chat", req.URL)
	assert.Equal(t, "Bearer sk-test", req.Headers.Get("Authorization"))

	body := decodeBody(t, req)
	assert.Equal(t, "Generate 3 users.", body["message"])
	assert.Equal(t, "You generate mock data.", body["preamble"])
}

func TestBuildRequestMistral(t *testing.T) {
	p := baseParams()
	p.Model = "mistral-large-latest"
	req, err := BuildRequest(ProfileMistral, p)
	require.NoError(t, err)
	assert.Equal(t, "https://api.mistral.ai/v1/chat/completions", req.URL)
}

func TestBuildRequestGeneric(t *testing.T) {
	p := baseParams()
	p.Model = "llama-3.3-70b"

	_, err := BuildRequest(ProfileGeneric, p)
	require.Error(t, err)

	p.BaseURL = "http://localhost:11434/api/generate"
	req, err := BuildRequest(ProfileGeneric, p)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/generate", req.URL)

	body := decodeBody(t, req)
	assert.Contains(t, body["prompt"], "You generate mock data.")
	assert.Contains(t, body["prompt"], "Generate 3 users.")
}

func TestBuildRequestCustomBase(t *testing.T) {
	p := baseParams()
	p.BaseURL = "https://proxy.internal/v1/"
	req, err := BuildRequest(ProfileOpenAI, p)
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.internal/v1/chat/completions", req.URL)
}

func TestBuildRequestHeaderOverride(t *testing.T) {
	p := baseParams()
	p.Headers = map[string]string{
		"authorization":   "Bearer override",
		"X-Custom-Header": "yes",
	}
	req, err := BuildRequest(ProfileOpenAI, p)
	require.NoError(t, err)

	// Caller headers win over the provider-mandated default regardless of case.
	assert.Equal(t, "Bearer override", req.Headers.Get("Authorization"))
	assert.Equal(t, "yes", req.Headers.Get("X-Custom-Header"))
}

func TestBuildRequestMissingModel(t *testing.T) {
	p := baseParams()
	p.Model = ""
	_, err := BuildRequest(ProfileOpenAI, p)
	assert.Error(t, err)

	_, err = BuildRequest(ProfileGoogle, p)
	assert.Error(t, err)
}
