// Package filter picks the lines of a scraped profile most likely to be the
// author's own writing.
package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	// MinLines is the fewest usable lines a profile must yield.
	MinLines = 3
	// MaxLines caps how many lines are kept.
	MaxLines = 6

	minLineLength = 80
)

// Lines returns up to MaxLines usable lines of content in the order they appear.
// The caller decides whether fewer than MinLines is acceptable.
func Lines(content string) []string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !usable(line) {
			continue
		}
		kept = append(kept, line)
		if len(kept) == MaxLines {
			break
		}
	}
	return kept
}

// usable reports whether a trimmed line looks like prose rather than navigation,
// links, headings or contact details.
func usable(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case utf8.RuneCountInString(line) <= minLineLength:
		return false
	case strings.HasPrefix(line, "http"):
		return false
	case strings.Contains(lower, "linkedin"):
		return false
	case strings.HasPrefix(lower, "about"):
		return false
	case strings.Contains(line, "contact"):
		return false
	case strings.HasSuffix(line, ":"):
		return false
	}
	return true
}

var md = goldmark.New()

// Plain strips inline Markdown (links, emphasis, code spans, heading and list
// markers) from a single line. Images and raw HTML are dropped. If nothing is
// left the trimmed input is returned.
func Plain(line string) string {
	src := []byte(strings.TrimSpace(line))
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Image, *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			b.Write(n.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})

	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" {
		return string(src)
	}
	return out
}
