package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"ghostwriter/config"
)

const firecrawlScrapePath = "/v1/scrape"

type firecrawlScrapeReq struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	Timeout         int      `json:"timeout,omitempty"`
}

type firecrawlScrapeResp struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
	Error string `json:"error"`
}

// FirecrawlSource fetches pages through the Firecrawl managed scraping API, which
// renders the page and returns Markdown.
type FirecrawlSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFirecrawl creates a FirecrawlSource. client may be nil.
func NewFirecrawl(cfg config.FirecrawlConfig, client *http.Client) (*FirecrawlSource, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("firecrawl api key missing; set FIRECRAWL_API_KEY or scraper.firecrawl.api_key")
	}
	if client == nil {
		client = &http.Client{Timeout: PageTimeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultFirecrawlBaseURL
	}
	return &FirecrawlSource{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

func (f *FirecrawlSource) Name() string { return config.ScraperFirecrawl }

func (f *FirecrawlSource) Fetch(ctx context.Context, url string) (Content, error) {
	slog.Info("[Firecrawl] Scraping", slog.String("url", url))

	md, err := f.scrape(ctx, url)
	if err != nil {
		slog.Error("[Firecrawl] Scrape failed", slog.String("url", url), slog.String("error", err.Error()))
		return Content{}, &Error{Source: f.Name(), URL: url, Err: err}
	}

	text, err := checkLength(f.Name(), url, md)
	if err != nil {
		return Content{}, err
	}
	slog.Info("[Firecrawl] Scrape result", slog.Int("size", len(text)))
	return Content{Text: text, Format: FormatMarkdown}, nil
}

func (f *FirecrawlSource) scrape(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(firecrawlScrapeReq{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		Timeout:         int(PageTimeout.Milliseconds()),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+firecrawlScrapePath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var data firecrawlScrapeResp
	if err := json.Unmarshal(raw, &data); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("firecrawl returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("decode firecrawl response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !data.Success {
		msg := data.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("firecrawl scrape failed: %d %s", resp.StatusCode, msg)
	}
	return data.Data.Markdown, nil
}
