package generator

import (
	"context"
	"errors"
	"log/slog"

	"ghostwriter/filter"
	"ghostwriter/scraper"
)

// Pipeline runs one request end to end: scrape, build the prompt, generate.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	source scraper.Source
	agent  *Agent
}

func NewPipeline(source scraper.Source, agent *Agent) (*Pipeline, error) {
	if source == nil {
		return nil, errors.New("content source is required")
	}
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	return &Pipeline{source: source, agent: agent}, nil
}

// Run returns exactly BatchSize posts or an error; never a partial batch.
func (p *Pipeline) Run(ctx context.Context, req Request) (PostBatch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, err := p.source.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(content, req.Topic)
	if err != nil {
		return nil, err
	}
	slog.Debug("[Pipeline] Prompt built",
		slog.String("source", p.source.Name()),
		slog.String("format", content.Format.String()),
		slog.Int("size", len(prompt)))

	return p.agent.Generate(ctx, prompt)
}

// BuildPrompt picks the prompt for the content's format. Markdown from the
// managed scraper is reduced to a few excerpt lines first; rendered page text is
// embedded whole.
func BuildPrompt(content scraper.Content, topic string) (string, error) {
	if content.Format != scraper.FormatMarkdown {
		return BuildProfilePrompt(content.Text, topic), nil
	}

	lines := filter.Lines(content.Text)
	if len(lines) < filter.MinLines {
		return "", &InsufficientContentError{Found: len(lines), Need: filter.MinLines}
	}
	excerpts := make([]string, len(lines))
	for i, line := range lines {
		excerpts[i] = filter.Plain(line)
	}
	return BuildExcerptPrompt(excerpts, topic), nil
}
