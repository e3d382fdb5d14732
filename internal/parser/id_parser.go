package parser

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh record identifier
func NewID() string {
	return uuid.NewString()
}

// WithID appends an id:value token to a raw line, keeping the line otherwise
// intact. A CRLF line keeps its carriage return.
func WithID(line, id string) string {
	ending := ""
	if strings.HasSuffix(line, "\r") {
		ending = "\r"
	}
	return strings.TrimRight(line, " \t\r") + " " + IDPrefix + id + ending
}

// IsValidID checks if an identifier can be used as a detail file name
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, "/\\ \t") && id != "." && id != ".."
}
