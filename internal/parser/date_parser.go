package parser

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only date form todo.txt understands
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD token
func ParseDate(token string) (time.Time, bool) {
	if len(token) != len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, token, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParsePriorityToken parses the three character "(X)" form
func ParsePriorityToken(token string) (rune, bool) {
	if len(token) != 3 || token[0] != '(' || token[2] != ')' {
		return 0, false
	}
	p := rune(token[1])
	if p < 'A' || p > 'Z' {
		return 0, false
	}
	return p, true
}

// FormatPriority renders a priority letter as "(X)"
func FormatPriority(p rune) string {
	return "(" + string(p) + ")"
}

// NormalizePriority converts user input into a priority letter.
// Accepts "A", "a", "(A)" and the empty string (no priority).
func NormalizePriority(input string) (rune, error) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return 0, nil
	}
	if p, ok := ParsePriorityToken(input); ok {
		return p, nil
	}
	if len(input) == 1 && input[0] >= 'A' && input[0] <= 'Z' {
		return rune(input[0]), nil
	}
	return 0, fmt.Errorf("invalid priority '%s'. Use a single letter A-Z", input)
}
