package provider

import (
	"encoding/json"
	"strings"
)

// ExtractText pulls the generated text out of a provider response envelope.
// The function is total: unrecognized or malformed payloads yield "", which
// the caller treats as a generation failure rather than an error here.
func ExtractText(profile Profile, raw []byte) string {
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}

	switch profile {
	case ProfileOpenAI, ProfileMistral:
		return openAIText(envelope)
	case ProfileAnthropic:
		return anthropicText(envelope)
	case ProfileGoogle:
		return googleText(envelope)
	case ProfileCohere:
		return cohereText(envelope)
	default:
		return genericText(envelope)
	}
}

// choices[0].message.content
func openAIText(envelope map[string]any) string {
	choices, ok := envelope["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return ""
	}
	content, _ := message["content"].(string)
	return content
}

// content[].text, concatenating text blocks.
func anthropicText(envelope map[string]any) string {
	blocks, ok := envelope["content"].([]any)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := block["text"].(string); ok {
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// candidates[0].content.parts[].text
func googleText(envelope map[string]any) string {
	candidates, ok := envelope["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return ""
	}
	candidate, ok := candidates[0].(map[string]any)
	if !ok {
		return ""
	}
	content, ok := candidate["content"].(map[string]any)
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]any)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, p := range parts {
		part, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := part["text"].(string); ok {
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// text, or the older generations[0].text.
func cohereText(envelope map[string]any) string {
	if text, ok := envelope["text"].(string); ok && text != "" {
		return text
	}
	generations, ok := envelope["generations"].([]any)
	if !ok || len(generations) == 0 {
		return ""
	}
	generation, ok := generations[0].(map[string]any)
	if !ok {
		return ""
	}
	text, _ := generation["text"].(string)
	return text
}

// genericText probes the shapes self-hosted OpenAI-compatible servers use
// before falling back to a few common top-level fields.
func genericText(envelope map[string]any) string {
	if text := openAIText(envelope); text != "" {
		return text
	}
	if choices, ok := envelope["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if text, ok := choice["text"].(string); ok && text != "" {
				return text
			}
		}
	}
	for _, field := range []string{"text", "output", "response", "completion"} {
		if text, ok := envelope[field].(string); ok && text != "" {
			return text
		}
	}
	return ""
}
