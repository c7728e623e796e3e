package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ghostwriter/config"
)

const (
	// MinContentLength is the shortest text accepted from a source. Anything
	// shorter usually means a login wall, a CAPTCHA or an empty page.
	MinContentLength = 100

	// PageTimeout bounds a single page load or scrape call.
	PageTimeout = 60 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Format tells the pipeline how to treat Content.Text.
type Format int

const (
	// FormatText is rendered, visible page text.
	FormatText Format = iota
	// FormatMarkdown is Markdown returned by the managed scraping service.
	FormatMarkdown
)

func (f Format) String() string {
	if f == FormatMarkdown {
		return "markdown"
	}
	return "text"
}

// Content is the raw text obtained for one profile page.
type Content struct {
	Text   string
	Format Format
}

// Source obtains raw text from a profile URL. Implementations do not retry.
type Source interface {
	Name() string
	Fetch(ctx context.Context, url string) (Content, error)
}

// ErrInsufficientContent is wrapped by Error when the page yielded too little text.
var ErrInsufficientContent = errors.New("insufficient scraped content; the URL may require authentication or CAPTCHA handling")

// Error reports a failed fetch.
type Error struct {
	Source string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to scrape %s via %s: %v", e.URL, e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// checkLength trims text and rejects it when shorter than MinContentLength.
func checkLength(source, url, text string) (string, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < MinContentLength {
		return "", &Error{
			Source: source,
			URL:    url,
			Err:    fmt.Errorf("%w (got %d characters)", ErrInsufficientContent, n),
		}
	}
	return text, nil
}

// New builds the Source selected by cfg.Provider.
func New(cfg config.ScraperConfig) (Source, error) {
	switch cfg.Provider {
	case config.ScraperFirecrawl:
		return NewFirecrawl(cfg.Firecrawl, nil)
	case config.ScraperBrowser, "":
		return NewBrowser(cfg.Browser), nil
	case config.ScraperStatic:
		return NewStatic(), nil
	default:
		return nil, fmt.Errorf("scraper provider %s not supported", cfg.Provider)
	}
}
