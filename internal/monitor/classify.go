package monitor

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// how many trailing non-blank lines of a pane are inspected
const classifyWindow = 15

var (
	busyPatterns = []string{
		"esc to interrupt",
		"ctrl+c to interrupt",
	}
	promptPatterns = []string{
		"do you want to",
		"would you like to",
		"❯ 1. yes",
		"(y/n)",
		"[y/n]",
	}
)

// Classify derives a session status from captured pane content.
// ANSI sequences are ignored and only the bottom of the pane is considered.
func Classify(content string) Status {
	tail := strings.ToLower(lastLines(ansi.Strip(content), classifyWindow))

	for _, p := range promptPatterns {
		if strings.Contains(tail, p) {
			return StatusWaitingForApproval
		}
	}
	for _, p := range busyPatterns {
		if strings.Contains(tail, p) {
			return StatusWorking
		}
	}
	return StatusIdle
}

func lastLines(content string, n int) string {
	lines := strings.Split(content, "\n")
	var kept []string
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		kept = append(kept, lines[i])
	}
	// restore top to bottom order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}
