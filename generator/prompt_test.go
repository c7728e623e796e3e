package generator

import (
	"context"
	"strings"
	"testing"
)

func TestBuildExcerptPrompt(t *testing.T) {
	excerpts := []string{"first excerpt", "second excerpt", "third excerpt"}
	p := BuildExcerptPrompt(excerpts, "remote work")

	for _, want := range []string{
		"Post 1: first excerpt\n",
		"Post 3: third excerpt\n",
		`Topic: "remote work"`,
		"exactly 10 original posts",
		OutputDirective,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "Post 4:") {
		t.Errorf("unexpected fourth excerpt:\n%s", p)
	}
	if again := BuildExcerptPrompt(excerpts, "remote work"); again != p {
		t.Error("BuildExcerptPrompt is not deterministic")
	}
}

func TestBuildProfilePrompt(t *testing.T) {
	profile := "Jane Doe\nStaff engineer\nI write about on-call."
	p := BuildProfilePrompt(profile, "incident reviews")

	for _, want := range []string{
		`"""` + profile + `"""`,
		`Topic: "incident reviews"`,
		"Do not include hashtags",
		OutputDirective,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if again := BuildProfilePrompt(profile, "incident reviews"); again != p {
		t.Error("BuildProfilePrompt is not deterministic")
	}
}

func TestOutputDirective(t *testing.T) {
	lower := strings.ToLower(OutputDirective)
	for _, want := range []string{"only a json array", "exactly 10 strings", "no markdown", "no commentary", "no labels"} {
		if !strings.Contains(lower, want) {
			t.Errorf("directive missing %q", want)
		}
	}
}

func TestMockLLM_ProducesValidBatch(t *testing.T) {
	raw, err := MockLLM{}.Complete(context.Background(), BuildExcerptPrompt([]string{"a", "b", "c"}, "hiring"))
	if err != nil {
		t.Fatal(err)
	}
	posts, err := Validate(ParseCandidate(raw))
	if err != nil {
		t.Fatalf("mock output rejected: %v", err)
	}
	if !strings.Contains(posts[0], "hiring") {
		t.Errorf("topic not used: %q", posts[0])
	}
}
