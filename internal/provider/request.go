package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultOpenAIBase    = "https://api.openai.com/v1"
	defaultAnthropicBase = "https://api.anthropic.com/v1"
	defaultGoogleBase    = "https://generativelanguage.googleapis.com/v1beta"
	defaultCohereBase    = "https://api.cohere.com/v1"
	defaultMistralBase   = "https://api.mistral.ai/v1"

	anthropicVersion = "2023-06-01"
)

// Params are the resolved inputs for one upstream call.
type Params struct {
	APIKey      string
	Model       string
	BaseURL     string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// Headers are caller-supplied extras. They win over provider-mandated
	// defaults when the names collide, compared case-insensitively.
	Headers map[string]string
}

// Request is a fully built upstream HTTP request.
type Request struct {
	Profile Profile
	URL     string
	Headers http.Header
	Body    []byte
}

// BuildRequest renders the profile-specific URL, auth placement, and payload
// shape for the given parameters.
func BuildRequest(profile Profile, p Params) (*Request, error) {
	if strings.TrimSpace(p.Model) == "" && profile != ProfileGoogle {
		return nil, errors.New("model is required")
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	for name, value := range p.Headers {
		if strings.TrimSpace(name) == "" {
			continue
		}
		headers.Set(name, value)
	}

	var (
		endpoint string
		body     map[string]any
	)

	switch profile {
	case ProfileOpenAI:
		endpoint = joinPath(base(p.BaseURL, defaultOpenAIBase), "/chat/completions")
		setIfAbsent(headers, "Authorization", "Bearer "+p.APIKey)
		body = openAIBody(p)

	case ProfileMistral:
		endpoint = joinPath(base(p.BaseURL, defaultMistralBase), "/chat/completions")
		setIfAbsent(headers, "Authorization", "Bearer "+p.APIKey)
		body = openAIBody(p)

	case ProfileAnthropic:
		endpoint = joinPath(base(p.BaseURL, defaultAnthropicBase), "/messages")
		setIfAbsent(headers, "x-api-key", p.APIKey)
		setIfAbsent(headers, "anthropic-version", anthropicVersion)
		body = map[string]any{
			"model":       p.Model,
			"max_tokens":  p.MaxTokens,
			"temperature": p.Temperature,
			"messages": []map[string]string{
				{"role": "user", "content": p.Prompt},
			},
		}
		if p.System != "" {
			body["system"] = p.System
		}

	case ProfileGoogle:
		model := strings.TrimPrefix(strings.TrimSpace(p.Model), "models/")
		if model == "" {
			return nil, errors.New("model is required")
		}
		endpoint = fmt.Sprintf("%s/models/%s:generateContent?key=%s",
			base(p.BaseURL, defaultGoogleBase),
			url.PathEscape(model),
			url.QueryEscape(p.APIKey),
		)
		body = map[string]any{
			"contents": []map[string]any{
				{
					"role":  "user",
					"parts": []map[string]string{{"text": p.Prompt}},
				},
			},
			"generationConfig": map[string]any{
				"temperature":     p.Temperature,
				"maxOutputTokens": p.MaxTokens,
			},
		}
		if p.System != "" {
			body["systemInstruction"] = map[string]any{
				"parts": []map[string]string{{"text": p.System}},
			}
		}

	case ProfileCohere:
		endpoint = joinPath(base(p.BaseURL, defaultCohereBase), "/chat")
		setIfAbsent(headers, "Authorization", "Bearer "+p.APIKey)
		body = map[string]any{
			"model":       p.Model,
			"message":     p.Prompt,
			"temperature": p.Temperature,
			"max_tokens":  p.MaxTokens,
		}
		if p.System != "" {
			body["preamble"] = p.System
		}

	case ProfileGeneric:
		if strings.TrimSpace(p.BaseURL) == "" {
			return nil, errors.New("generic profile requires a base endpoint")
		}
		endpoint = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
		setIfAbsent(headers, "Authorization", "Bearer "+p.APIKey)
		prompt := p.Prompt
		if p.System != "" {
			prompt = p.System + "\n\n" + p.Prompt
		}
		body = map[string]any{
			"model":       p.Model,
			"prompt":      prompt,
			"temperature": p.Temperature,
			"max_tokens":  p.MaxTokens,
		}

	default:
		return nil, fmt.Errorf("unknown provider profile %d", profile)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &Request{Profile: profile, URL: endpoint, Headers: headers, Body: payload}, nil
}

func openAIBody(p Params) map[string]any {
	messages := make([]map[string]string, 0, 2)
	if p.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": p.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": p.Prompt})
	return map[string]any{
		"model":       p.Model,
		"messages":    messages,
		"temperature": p.Temperature,
		"max_tokens":  p.MaxTokens,
	}
}

func base(baseURL, def string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return def
	}
	return baseURL
}

func joinPath(baseURL, suffix string) string {
	if strings.Contains(baseURL, strings.TrimLeft(suffix, "/")) {
		return baseURL
	}
	return baseURL + suffix
}

// setIfAbsent adds a provider-mandated header unless the caller already
// supplied an equivalent one; http.Header canonicalizes names, which gives
// the case-insensitive match.
func setIfAbsent(headers http.Header, name, value string) {
	if headers.Get(name) != "" {
		return
	}
	headers.Set(name, value)
}
