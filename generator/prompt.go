package generator

import (
	"fmt"
	"strings"
)

// OutputDirective is appended to every prompt. Validate relies on it: the reply
// must be a bare JSON array of BatchSize strings.
const OutputDirective = "Return only a JSON array of exactly 10 strings, no markdown, no commentary, no labels. " +
	`Example: ["post 1", "post 2", ..., "post 10"]. Ensure the output is valid JSON.`

// BuildExcerptPrompt asks for posts in the voice of the given profile excerpts.
func BuildExcerptPrompt(excerpts []string, topic string) string {
	var sb strings.Builder
	sb.WriteString("You are a social media ghostwriter.\n\n")
	sb.WriteString("Here are some real example posts or excerpts scraped from a profile:\n")
	for i, line := range excerpts {
		sb.WriteString(fmt.Sprintf("Post %d: %s\n", i+1, line))
	}
	sb.WriteString("\nYour task:\n")
	sb.WriteString(fmt.Sprintf("- Write exactly %d original posts (each under 1000 characters)\n", BatchSize))
	sb.WriteString("- Make them feel like they came from the same person\n")
	sb.WriteString(fmt.Sprintf("- Topic: %q\n", topic))
	sb.WriteString("- No explanations, no hashtags, no emojis\n\n")
	sb.WriteString(OutputDirective)
	sb.WriteString("\n")
	return sb.String()
}

// BuildProfilePrompt asks for posts mimicking the full scraped profile text.
func BuildProfilePrompt(profile, topic string) string {
	var sb strings.Builder
	sb.WriteString("You are a social media expert. Based on this scraped profile content:\n\n")
	sb.WriteString(`"""`)
	sb.WriteString(profile)
	sb.WriteString(`"""`)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Generate exactly %d original posts.\n", BatchSize))
	sb.WriteString(fmt.Sprintf("- Topic: %q\n", topic))
	sb.WriteString("- Mimic the typical length and style of the posts in the profile\n")
	sb.WriteString(`- Put line breaks between sentences using "\n" (e.g. "First sentence.\nSecond sentence.")` + "\n")
	sb.WriteString("- Do not include hashtags; only use emojis if the profile content uses them\n\n")
	sb.WriteString(OutputDirective)
	sb.WriteString("\n")
	return sb.String()
}
