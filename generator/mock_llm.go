package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

var topicRe = regexp.MustCompile(`Topic: "([^"\n]*)"`)

// MockLLM answers every prompt with BatchSize canned posts about the prompt's
// topic, for local runs without a model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt string) (string, error) {
	topic := "your topic"
	if match := topicRe.FindStringSubmatch(prompt); match != nil && match[1] != "" {
		topic = match[1]
	}

	posts := make([]string, BatchSize)
	for i := range posts {
		posts[i] = fmt.Sprintf("Thought %d on %s.\nStart small, ship often.\nWhat would you add?", i+1, topic)
	}
	out, err := json.Marshal(posts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
