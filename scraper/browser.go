package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/sync/semaphore"

	"ghostwriter/config"
)

// BrowserSource renders the page in a headless Chrome and reads the body's visible
// text. Every Fetch launches its own browser and tears it down before returning.
type BrowserSource struct {
	bin      string
	sessions *semaphore.Weighted
}

// NewBrowser creates a BrowserSource allowing at most cfg.MaxSessions browsers at once.
func NewBrowser(cfg config.BrowserConfig) *BrowserSource {
	n := cfg.MaxSessions
	if n <= 0 {
		n = config.DefaultBrowserMaxSessions
	}
	return &BrowserSource{
		bin:      cfg.Bin,
		sessions: semaphore.NewWeighted(int64(n)),
	}
}

func (b *BrowserSource) Name() string { return config.ScraperBrowser }

func (b *BrowserSource) Fetch(ctx context.Context, url string) (Content, error) {
	if err := b.sessions.Acquire(ctx, 1); err != nil {
		return Content{}, &Error{Source: b.Name(), URL: url, Err: err}
	}
	defer b.sessions.Release(1)

	slog.Info("[Browser] Scraping", slog.String("url", url))
	text, err := b.render(ctx, url)
	if err != nil {
		slog.Error("[Browser] Scrape failed", slog.String("url", url), slog.String("error", err.Error()))
		return Content{}, &Error{Source: b.Name(), URL: url, Err: err}
	}

	text, err = checkLength(b.Name(), url, text)
	if err != nil {
		return Content{}, err
	}
	slog.Info("[Browser] Scrape result", slog.Int("size", len(text)))
	return Content{Text: text, Format: FormatText}, nil
}

func (b *BrowserSource) render(ctx context.Context, url string) (string, error) {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")
	if b.bin != "" {
		l = l.Bin(b.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	page = page.Timeout(PageTimeout)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		return "", fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("page did not load: %w", err)
	}
	// A page that never settles is still read as-is.
	if err := page.WaitStable(time.Second); err != nil {
		slog.Warn("[Browser] Page did not stabilize, continuing anyway", slog.String("error", err.Error()))
	}

	res, err := page.Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", fmt.Errorf("failed to read page text: %w", err)
	}
	return res.Value.Str(), nil
}
