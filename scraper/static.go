package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"ghostwriter/config"
)

// StaticSource fetches server-rendered pages with a plain HTTP request. No
// JavaScript runs, so it only suits pages whose text is in the initial HTML.
type StaticSource struct{}

func NewStatic() *StaticSource { return &StaticSource{} }

func (s *StaticSource) Name() string { return config.ScraperStatic }

func (s *StaticSource) Fetch(ctx context.Context, url string) (Content, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(PageTimeout)

	var (
		text     string
		fetchErr error
	)
	c.OnHTML("body", func(e *colly.HTMLElement) {
		text = visibleText(e.DOM)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("%w (status %d)", err, r.StatusCode)
	})

	slog.Info("[Static] Scraping", slog.String("url", url))
	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	if fetchErr != nil {
		slog.Error("[Static] Scrape failed", slog.String("url", url), slog.String("error", fetchErr.Error()))
		return Content{}, &Error{Source: s.Name(), URL: url, Err: fetchErr}
	}

	text, err := checkLength(s.Name(), url, text)
	if err != nil {
		return Content{}, err
	}
	slog.Info("[Static] Scrape result", slog.Int("size", len(text)))
	return Content{Text: text, Format: FormatText}, nil
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// visibleText approximates innerText: hidden elements are dropped, block
// elements start new lines and runs of whitespace collapse.
func visibleText(sel *goquery.Selection) string {
	sel = sel.Clone()
	sel.Find("script, style, noscript, template, svg, [hidden]").Remove()

	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, n *goquery.Selection) {
			name := goquery.NodeName(n)
			switch {
			case name == "#text":
				b.WriteString(n.Text())
			case blockTags[name]:
				b.WriteByte('\n')
				walk(n)
				b.WriteByte('\n')
			default:
				walk(n)
			}
		})
	}
	walk(sel)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
