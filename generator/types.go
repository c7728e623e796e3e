package generator

import (
	"errors"
	"fmt"
	"strings"
)

// BatchSize is the number of posts every successful generation returns.
const BatchSize = 10

// ErrMissingInput is returned when a request lacks its URL or topic.
var ErrMissingInput = errors.New("URL and topic required")

// Request asks for a batch of posts about Topic written in the voice of the
// profile at URL.
type Request struct {
	URL   string `json:"url"`
	Topic string `json:"topic"`
}

// Validate rejects requests with a blank URL or topic.
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" || strings.TrimSpace(r.Topic) == "" {
		return ErrMissingInput
	}
	return nil
}

// PostBatch holds exactly BatchSize non-blank posts.
type PostBatch []string

// InsufficientContentError means the scraped profile had too few usable lines
// to seed the prompt.
type InsufficientContentError struct {
	Found int
	Need  int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("not enough usable lines from profile: found %d, need %d", e.Found, e.Need)
}

// ValidationError describes a model response that is not a usable PostBatch.
type ValidationError struct {
	Count  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("generated %d posts instead of %d", e.Count, BatchSize)
}

// GenerationFailedError is returned once every attempt has failed. Err is the
// last API error or *ValidationError; LastCount the size of the last candidate.
type GenerationFailedError struct {
	Attempts  int
	LastCount int
	Err       error
}

func (e *GenerationFailedError) Error() string {
	var ve *ValidationError
	if errors.As(e.Err, &ve) {
		return fmt.Sprintf("failed to generate exactly %d posts after %d attempts: %v", BatchSize, e.Attempts, e.Err)
	}
	return fmt.Sprintf("failed to generate posts after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }
