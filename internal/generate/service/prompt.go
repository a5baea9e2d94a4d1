package service

import (
	"fmt"
	"strings"

	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
)

const systemPrompt = "You are a mock data generator. You produce realistic, " +
	"internally consistent sample records that match the schema you are given. " +
	"Respond with the data only, in the exact format requested, with no " +
	"explanation before or after."

var formatDirectives = map[string]string{
	"json": "Output a JSON array of objects, one object per record.",
	"csv":  "Output CSV with a header row followed by one line per record.",
	"sql":  "Output SQL INSERT statements, one per record, each terminated with a semicolon.",
	"xml":  "Output a single XML document with one element per record under a common root.",
	"html": "Output an HTML table with a header row and one row per record.",
	"txt":  "Output plain text, one record per line.",
}

// buildPrompt renders the user-turn prompt for a validated request.
func buildPrompt(req *generatedomain.Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate exactly %d records of mock data.\n\n", req.Count)

	if req.Schema != "" {
		switch req.SchemaType {
		case generatedomain.SchemaTypeNoSQL:
			sb.WriteString("The records must match this document schema:\n")
		default:
			sb.WriteString("The records must match this table schema:\n")
		}
		sb.WriteString(req.Schema)
		sb.WriteString("\n\n")
	}

	if req.Examples != "" {
		sb.WriteString("Follow the style and value distribution of these example records:\n")
		sb.WriteString(req.Examples)
		sb.WriteString("\n\n")
	}

	if directive, ok := formatDirectives[req.Format]; ok {
		sb.WriteString(directive)
		sb.WriteString("\n")
	}

	if req.AdditionalInstructions != "" {
		sb.WriteString("\nAdditional instructions: ")
		sb.WriteString(req.AdditionalInstructions)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}
