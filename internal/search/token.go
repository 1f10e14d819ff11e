package search

import "strings"

// EstimateTokens gives a rough token count of about 1.33 tokens per word.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// trimToTokens cuts text to roughly maxTokens, ending on a word boundary.
func trimToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text
	}
	words := strings.Fields(text)
	n := int(float64(maxTokens) / 1.33)
	if n < 1 {
		n = 1
	}
	if n >= len(words) {
		return text
	}
	return strings.Join(words[:n], " ") + "…"
}
