package generator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"ghostwriter/scraper"
)

type stubSource struct {
	content scraper.Content
	err     error
	urls    []string
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(_ context.Context, url string) (scraper.Content, error) {
	s.urls = append(s.urls, url)
	return s.content, s.err
}

func qualifying(n int) []string {
	var lines []string
	for i := 0; i < n; i++ {
		lines = append(lines, "I have spent years learning that **small releases** beat big launches every single time, lesson "+strings.Repeat("!", i+1))
	}
	return lines
}

func newTestPipeline(t *testing.T, src scraper.Source, llm LLMClient) *Pipeline {
	t.Helper()
	agent, _ := testAgent(llm)
	p, err := NewPipeline(src, agent)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPipeline_MarkdownEndToEnd(t *testing.T) {
	md := "# Jane\n\nhttps://example.com/jane\n" + strings.Join(qualifying(4), "\n") + "\nContact:\n"
	src := &stubSource{content: scraper.Content{Text: md, Format: scraper.FormatMarkdown}}
	llm := &scriptedLLM{replies: []reply{{text: jsonOf(tenPosts())}}}

	posts, err := newTestPipeline(t, src, llm).Run(context.Background(), Request{URL: "https://example.com/jane", Topic: "shipping"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual([]string(posts), tenPosts()) {
		t.Errorf("posts changed: %q", posts)
	}
	if llm.calls() != 1 {
		t.Fatalf("calls = %d", llm.calls())
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "Post 4: I have spent years learning that small releases beat") {
		t.Errorf("excerpts missing or not flattened:\n%s", prompt)
	}
	if strings.Contains(prompt, "Post 5:") || strings.Contains(prompt, "**") {
		t.Errorf("unexpected prompt content:\n%s", prompt)
	}
}

func TestPipeline_InsufficientLines(t *testing.T) {
	md := strings.Repeat("short line\n", 20) + strings.Join(qualifying(2), "\n")
	src := &stubSource{content: scraper.Content{Text: md, Format: scraper.FormatMarkdown}}
	llm := &scriptedLLM{replies: []reply{{text: jsonOf(tenPosts())}}}

	_, err := newTestPipeline(t, src, llm).Run(context.Background(), Request{URL: "u", Topic: "t"})
	var ic *InsufficientContentError
	if !errors.As(err, &ic) {
		t.Fatalf("error = %v, want *InsufficientContentError", err)
	}
	if ic.Found != 2 {
		t.Errorf("found = %d", ic.Found)
	}
	if llm.calls() != 0 {
		t.Errorf("model called %d times", llm.calls())
	}
}

func TestPipeline_TextUsesWholeProfile(t *testing.T) {
	text := "Jane Doe\nShort lines only\nStill a voice worth copying " + strings.Repeat("x", 100)
	src := &stubSource{content: scraper.Content{Text: text, Format: scraper.FormatText}}
	llm := &scriptedLLM{replies: []reply{{text: jsonOf(tenPosts())}}}

	if _, err := newTestPipeline(t, src, llm).Run(context.Background(), Request{URL: "u", Topic: "t"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(llm.prompts[0], `"""`+text+`"""`) {
		t.Errorf("profile text not embedded:\n%s", llm.prompts[0])
	}
}

func TestPipeline_ScrapeErrorPropagates(t *testing.T) {
	scrapeErr := &scraper.Error{Source: "stub", URL: "u", Err: scraper.ErrInsufficientContent}
	src := &stubSource{err: scrapeErr}
	llm := &scriptedLLM{replies: []reply{{text: jsonOf(tenPosts())}}}

	_, err := newTestPipeline(t, src, llm).Run(context.Background(), Request{URL: "u", Topic: "t"})
	if !errors.Is(err, scraper.ErrInsufficientContent) {
		t.Fatalf("error = %v", err)
	}
	if llm.calls() != 0 {
		t.Errorf("model called %d times", llm.calls())
	}
}

func TestPipeline_MissingInput(t *testing.T) {
	tests := []Request{{}, {URL: "u"}, {Topic: "t"}, {URL: "  ", Topic: "t"}}
	for _, req := range tests {
		src := &stubSource{}
		llm := &scriptedLLM{replies: []reply{{text: "[]"}}}
		_, err := newTestPipeline(t, src, llm).Run(context.Background(), req)
		if !errors.Is(err, ErrMissingInput) {
			t.Errorf("Run(%+v) error = %v", req, err)
		}
		if len(src.urls) != 0 {
			t.Errorf("Run(%+v) fetched %v", req, src.urls)
		}
	}
}

func TestNewPipeline_Requires(t *testing.T) {
	agent, _ := testAgent(MockLLM{})
	if _, err := NewPipeline(nil, agent); err == nil {
		t.Error("expected error without source")
	}
	if _, err := NewPipeline(&stubSource{}, nil); err == nil {
		t.Error("expected error without agent")
	}
}
