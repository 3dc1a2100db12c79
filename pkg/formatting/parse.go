// Package formatting provides helpers for parsing model output and
// rendering human-readable values.
package formatting

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Parse extracts a JSON document from raw model output and unmarshals it
// into T. Handles markdown code fences and leading or trailing prose by
// isolating the outermost brace-delimited region.
func Parse[T any](raw string) (T, error) {
	var result T

	content := strings.TrimSpace(raw)

	if match := fencePattern.FindStringSubmatch(content); match != nil {
		content = match[1]
	}

	start := strings.IndexAny(content, "{[")
	if start == -1 {
		return result, fmt.Errorf("no JSON object found in output: %q", truncate(raw, 120))
	}

	var end int
	if content[start] == '{' {
		end = strings.LastIndex(content, "}")
	} else {
		end = strings.LastIndex(content, "]")
	}
	if end <= start {
		return result, fmt.Errorf("unterminated JSON in output: %q", truncate(raw, 120))
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return result, fmt.Errorf("failed to parse output: %w", err)
	}

	return result, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
