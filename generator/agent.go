package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// MaxAttempts bounds calls to the model per Generate. API failures and
	// invalid replies draw from the same budget.
	MaxAttempts = 3
	// RetryDelay is the pause between attempts.
	RetryDelay = time.Second
)

// Agent turns a prompt into a validated PostBatch, retrying on failure.
type Agent struct {
	llm        LLMClient
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, retryDelay: RetryDelay, sleep: sleepCtx}, nil
}

// Generate calls the model up to MaxAttempts times and returns the first reply
// that passes Validate. After the last failed attempt it returns a
// *GenerationFailedError without pausing again.
func (a *Agent) Generate(ctx context.Context, prompt string) (PostBatch, error) {
	var (
		lastErr   error
		lastCount int
	)
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		posts, count, err := a.attempt(ctx, prompt, attempt)
		if err == nil {
			slog.Info("[Agent] Generated posts", slog.Int("attempt", attempt), slog.Int("count", len(posts)))
			return posts, nil
		}
		lastErr, lastCount = err, count
		slog.Warn("[Agent] Attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("count", count),
			slog.String("error", err.Error()))

		if attempt == MaxAttempts {
			break
		}
		if err := a.sleep(ctx, a.retryDelay); err != nil {
			return nil, &GenerationFailedError{Attempts: attempt, LastCount: lastCount, Err: err}
		}
	}

	slog.Error("[Agent] Generation failed after retries", slog.Int("attempts", MaxAttempts), slog.String("error", lastErr.Error()))
	return nil, &GenerationFailedError{Attempts: MaxAttempts, LastCount: lastCount, Err: lastErr}
}

// attempt runs one model call. count is the size of the parsed candidate, or 0
// when the call itself failed.
func (a *Agent) attempt(ctx context.Context, prompt string, n int) (PostBatch, int, error) {
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, 0, err
	}
	slog.Debug("[Agent] Raw response", slog.Int("attempt", n), slog.String("raw", raw))

	posts, err := Validate(ParseCandidate(raw))
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, ve.Count, err
		}
		return nil, 0, err
	}
	return posts, len(posts), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
