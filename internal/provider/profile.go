package provider

import (
	"net/url"
	"strings"
)

// Profile identifies one family of upstream AI APIs. The set is closed: which
// commercial APIs exist is an external fact, and a small sum type keeps the
// per-family quirks auditable in one place.
type Profile int

const (
	ProfileOpenAI Profile = iota
	ProfileAnthropic
	ProfileGoogle
	ProfileCohere
	ProfileMistral
	ProfileGeneric
)

func (p Profile) String() string {
	switch p {
	case ProfileOpenAI:
		return "openai"
	case ProfileAnthropic:
		return "anthropic"
	case ProfileGoogle:
		return "google"
	case ProfileCohere:
		return "cohere"
	case ProfileMistral:
		return "mistral"
	case ProfileGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Classify maps a (model, base endpoint) pair onto a profile. Endpoint host
// patterns take priority over model-name heuristics; an unrecognized pair
// falls back to the OpenAI shape only when no endpoint was supplied,
// otherwise to the generic bearer-token shape against the literal endpoint.
func Classify(model, baseURL string) Profile {
	host := hostOf(baseURL)
	switch {
	case strings.Contains(host, "anthropic"):
		return ProfileAnthropic
	case strings.Contains(host, "googleapis"), strings.Contains(host, "generativelanguage"):
		return ProfileGoogle
	case strings.Contains(host, "cohere"):
		return ProfileCohere
	case strings.Contains(host, "mistral"):
		return ProfileMistral
	case strings.Contains(host, "openai"), strings.Contains(host, "azure"):
		return ProfileOpenAI
	}

	name := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(name, "claude"):
		return ProfileAnthropic
	case strings.HasPrefix(name, "gemini"), strings.HasPrefix(name, "models/gemini"):
		return ProfileGoogle
	case strings.HasPrefix(name, "command"), strings.HasPrefix(name, "c4ai"):
		return ProfileCohere
	case strings.HasPrefix(name, "mistral"), strings.HasPrefix(name, "mixtral"),
		strings.HasPrefix(name, "codestral"), strings.HasPrefix(name, "ministral"),
		strings.HasPrefix(name, "magistral"), strings.HasPrefix(name, "open-mistral"),
		strings.HasPrefix(name, "open-mixtral"):
		return ProfileMistral
	case strings.HasPrefix(name, "gpt"), strings.HasPrefix(name, "chatgpt"),
		strings.HasPrefix(name, "o1"), strings.HasPrefix(name, "o3"), strings.HasPrefix(name, "o4"):
		return ProfileOpenAI
	}

	if strings.TrimSpace(baseURL) == "" {
		return ProfileOpenAI
	}
	return ProfileGeneric
}

func hostOf(baseURL string) string {
	baseURL = strings.ToLower(strings.TrimSpace(baseURL))
	if baseURL == "" {
		return ""
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		// Not parseable as a URL; match against the raw string.
		return baseURL
	}
	return parsed.Host
}
