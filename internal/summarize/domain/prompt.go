package domain

import "strings"

const promptHeader = "You are a helpful AI model. Analyze the provided video carefully."

const promptFooter = "Use any context from the video. Present your findings in user-friendly language."

// BuildPrompt produces the instruction text sent alongside the media.
// Deterministic: identical (style, query) inputs always yield identical
// output. An empty query adds no query directive.
func BuildPrompt(style SummaryStyle, query string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString(" ")
	b.WriteString(style.Instruction())
	b.WriteString("\n\n")

	if trimmed := strings.TrimSpace(query); trimmed != "" {
		b.WriteString("Also answer: ")
		b.WriteString(trimmed)
		b.WriteString("\n\n")
	}

	b.WriteString(promptFooter)
	return b.String()
}
