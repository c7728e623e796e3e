package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type reply struct {
	text string
	err  error
}

// scriptedLLM replays replies in order, repeating the last one.
type scriptedLLM struct {
	replies []reply
	prompts []string
}

func (s *scriptedLLM) Complete(_ context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.prompts = append(s.prompts, prompt)
	return s.replies[i].text, s.replies[i].err
}

func (s *scriptedLLM) calls() int { return len(s.prompts) }

// testAgent returns an Agent whose pauses are recorded instead of slept.
func testAgent(llm LLMClient) (*Agent, *[]time.Duration) {
	var pauses []time.Duration
	a, err := NewAgent(llm)
	if err != nil {
		panic(err)
	}
	a.sleep = func(ctx context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return ctx.Err()
	}
	return a, &pauses
}

func tenPosts() []string {
	posts := make([]string, BatchSize)
	for i := range posts {
		posts[i] = fmt.Sprintf("Post %d.\nSecond sentence.", i+1)
	}
	return posts
}

func jsonOf(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
