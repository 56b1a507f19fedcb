package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens provides a rough token count estimate.
// Uses the heuristic of ~4 characters per token for Latin-script text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	chars := len(text)

	wordEstimate := int(float64(words) * 1.3) // ~1.3 tokens per word
	charEstimate := chars / 4                 // ~4 chars per token

	return (wordEstimate + charEstimate) / 2
}

// FitNewestWithinBudget returns the longest suffix of entries whose combined
// estimate fits the budget. Entries keep their original order.
func FitNewestWithinBudget(entries []string, budget int) []string {
	if budget <= 0 || len(entries) == 0 {
		return nil
	}

	used := 0
	start := len(entries)
	for i := len(entries) - 1; i >= 0; i-- {
		cost := EstimateTokens(entries[i]) + 2 // +2 for role framing
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	return entries[start:]
}

// Truncate cuts text to roughly budget tokens at a word boundary.
func Truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if EstimateTokens(text) <= budget {
		return text
	}

	maxChars := budget * 4
	if maxChars >= len(text) {
		return text
	}

	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}
	truncated := text[:maxChars]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxChars/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
