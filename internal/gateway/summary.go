package gateway

import "strings"

// SummaryMarker prefixes assistant messages that carry a session summary.
const SummaryMarker = "Summary:"

// CutSummary reports whether content begins with SummaryMarker and returns
// the trimmed text after it. The marker must match exactly.
func CutSummary(content string) (string, bool) {
	rest, ok := strings.CutPrefix(content, SummaryMarker)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// FindSummary scans messages newest first for an assistant message carrying
// a summary marker.
func FindSummary(messages []Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleAssistant {
			continue
		}
		if summary, ok := CutSummary(messages[i].Content); ok {
			return summary, true
		}
	}
	return "", false
}
