package strings

import (
	"strings"
)

// DefaultSummaryLen is the default width of single-line summaries in table output.
const DefaultSummaryLen = 60

// MinSummaryLen is the smallest maxLen Summarize honours.
const MinSummaryLen = 4

// Summarize collapses s onto one line and shortens it to at most maxLen
// runes, ending in "..." when shortened. Every run of whitespace, newlines
// included, becomes a single space. maxLen below MinSummaryLen is raised
// to MinSummaryLen.
func Summarize(s string, maxLen int) string {
	if maxLen < MinSummaryLen {
		maxLen = MinSummaryLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// LastLines returns at most n trailing lines of s, without a trailing newline.
// n <= 0 returns s unchanged.
func LastLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
