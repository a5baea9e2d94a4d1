// Package normalizer strips explanatory prose and markdown fencing from raw
// model output, leaving only the payload in the caller's requested format.
package normalizer

import (
	"regexp"
	"strings"
)

var (
	fenceRe  = regexp.MustCompile("(?s)```([a-zA-Z0-9]*)[ \t]*\r?\n(.*?)```")
	insertRe = regexp.MustCompile(`(?is)INSERT\s+INTO\b.*?;`)
)

var leadingPhrases = []string{
	"here is",
	"here's",
	"here are",
	"sure",
	"certainly",
	"of course",
	"below is",
	"this is",
}

var trailingPhrases = []string{
	"feel free to",
	"hope that helps",
	"hope this helps",
	"you can use",
	"you can adjust",
	"let me know",
	"if you need",
	"if you have any",
	"note that",
	"each record",
	"this data",
}

// Clean extracts the payload for format from raw. It is pure and total: no
// recognizable structure means the trimmed input comes back unchanged.
func Clean(format, raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if block, ok := fencedBlock(text, format); ok {
		text = strings.TrimSpace(block)
	} else {
		switch format {
		case "json":
			text = sliceJSON(text)
		case "sql":
			text = collectInserts(text)
		case "csv":
			text = trimCSV(text)
		case "xml", "html":
			text = sliceMarkup(text)
		}
	}

	return strings.TrimSpace(stripBoilerplate(text))
}

// fencedBlock returns the body of a fenced code block labelled with format,
// falling back to the first unlabelled fence. A fence labelled with some
// other language is not a match: models sometimes emit explanatory snippets
// in unrelated languages alongside the payload.
func fencedBlock(text, format string) (string, bool) {
	var unlabelled string
	var haveUnlabelled bool
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		label := strings.ToLower(m[1])
		if label == format {
			return m[2], true
		}
		if label == "" && !haveUnlabelled {
			unlabelled = m[2]
			haveUnlabelled = true
		}
	}
	return unlabelled, haveUnlabelled
}

// sliceJSON cuts from the first opening bracket to the last matching closing
// bracket of the same kind.
func sliceJSON(text string) string {
	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return text
	}
	var closer string
	if text[start] == '[' {
		closer = "]"
	} else {
		closer = "}"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return text
	}
	return text[start : end+1]
}

func collectInserts(text string) string {
	statements := insertRe.FindAllString(text, -1)
	if len(statements) == 0 {
		return text
	}
	return strings.Join(statements, "\n")
}

// trimCSV drops a leading prose line when the line after it looks like CSV,
// then drops trailing prose lines.
func trimCSV(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && !strings.Contains(lines[0], ",") && strings.Contains(lines[1], ",") {
		lines = lines[1:]
	}
	for len(lines) > 0 && !strings.Contains(lines[len(lines)-1], ",") {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return text
	}
	return strings.Join(lines, "\n")
}

func sliceMarkup(text string) string {
	start := strings.Index(text, "<")
	end := strings.LastIndex(text, ">")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

// stripBoilerplate removes leading and trailing lines that open with one of
// the known filler phrases. It never touches interior lines.
func stripBoilerplate(text string) string {
	lines := strings.Split(text, "\n")

	for len(lines) > 0 && startsWithAny(lines[0], leadingPhrases) {
		lines = lines[1:]
	}
	for len(lines) > 0 && startsWithAny(lines[len(lines)-1], trailingPhrases) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return text
	}
	return strings.Join(lines, "\n")
}

func startsWithAny(line string, phrases []string) bool {
	line = strings.ToLower(strings.TrimSpace(line))
	for _, phrase := range phrases {
		if strings.HasPrefix(line, phrase) {
			return true
		}
	}
	return false
}
