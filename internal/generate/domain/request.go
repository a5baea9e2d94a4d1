package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultCount = 10
	MaxCount     = 100

	SchemaTypeSQL   = "sql"
	SchemaTypeNoSQL = "nosql"
)

// Formats the pipeline can normalize.
var Formats = []string{"json", "csv", "sql", "xml", "html", "txt"}

// Request holds the validated parameters for one generation call. It is
// constructed per call and discarded once the response is produced.
type Request struct {
	Schema                 string            `json:"schema"`
	SchemaType             string            `json:"schemaType"`
	Count                  int               `json:"count"`
	Format                 string            `json:"format"`
	Examples               string            `json:"examples"`
	AdditionalInstructions string            `json:"additionalInstructions"`

	// Provider overrides. A non-empty APIKey means the caller brings their
	// own upstream credentials and bypasses the daily quota.
	APIKey      string            `json:"apiKey"`
	Model       string            `json:"model"`
	BaseURL     string            `json:"baseUrl"`
	Temperature *float64          `json:"temperature"`
	MaxTokens   *int              `json:"maxTokens"`
	Headers     map[string]string `json:"headers"`
}

// Bypass reports whether the caller supplied their own provider credentials.
func (r *Request) Bypass() bool {
	return strings.TrimSpace(r.APIKey) != ""
}

// FieldError pins a validation failure to the offending request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field failure found in one pass so the
// caller can fix the whole request at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Normalize validates the request in place, applying defaults for omitted
// optional fields. It returns a *ValidationError listing every problem.
func (r *Request) Normalize() error {
	verr := &ValidationError{}

	r.Schema = strings.TrimSpace(r.Schema)
	r.Examples = strings.TrimSpace(r.Examples)
	if r.Schema == "" && r.Examples == "" {
		verr.add("schema", "schema is required unless examples are provided")
	}

	r.SchemaType = strings.ToLower(strings.TrimSpace(r.SchemaType))
	switch r.SchemaType {
	case "":
		r.SchemaType = SchemaTypeSQL
	case SchemaTypeSQL, SchemaTypeNoSQL:
	default:
		verr.add("schemaType", fmt.Sprintf("must be %q or %q", SchemaTypeSQL, SchemaTypeNoSQL))
	}

	if r.Count == 0 {
		r.Count = DefaultCount
	}
	if r.Count < 1 || r.Count > MaxCount {
		verr.add("count", fmt.Sprintf("must be between 1 and %d", MaxCount))
	}

	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = "json"
	}
	if !validFormat(r.Format) {
		verr.add("format", "must be one of "+strings.Join(Formats, ", "))
	}

	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		verr.add("temperature", "must be between 0 and 2")
	}
	if r.MaxTokens != nil && *r.MaxTokens < 1 {
		verr.add("maxTokens", "must be positive")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func validFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
