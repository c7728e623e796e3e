package generator

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// ParseCandidate decodes a model reply. Valid JSON is returned as decoded (it may
// not be an array at all). Anything else falls back to the reply's non-blank
// lines, trimmed.
func ParseCandidate(raw string) any {
	if raw == "" {
		raw = "[]"
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	slog.Warn("[Agent] Response not JSON, falling back to splitting lines")
	return splitLines(raw)
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Validate accepts a candidate only if it is an array of exactly BatchSize
// strings, none of them blank. Nothing is trimmed, padded or truncated.
func Validate(candidate any) (PostBatch, error) {
	var items []any
	switch v := candidate.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("response is not an array (got %T)", candidate)}
	}

	if len(items) != BatchSize {
		return nil, &ValidationError{Count: len(items)}
	}
	posts := make(PostBatch, 0, BatchSize)
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{Count: len(items), Reason: fmt.Sprintf("post %d is not a string", i+1)}
		}
		if strings.TrimSpace(s) == "" {
			return nil, &ValidationError{Count: len(items), Reason: fmt.Sprintf("post %d is empty", i+1)}
		}
		posts = append(posts, s)
	}
	return posts, nil
}
