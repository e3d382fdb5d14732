package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/torudo-dev/torudo/internal/models"
)

// Token prefixes recognised in a todo.txt line
const (
	CompletedMarker = "x"
	ProjectSigil    = "+"
	ContextSigil    = "@"
	IDPrefix        = "id:"
)

// ParseRecord parses a single todo.txt line.
// Fields are read strictly left to right:
//   - "x" marks the record completed, optionally followed by a completion date
//   - "(X)" sets the priority, only on records that are not completed
//   - a date sets the creation date
//   - the remaining tokens are +projects, @contexts, id:value or description words
func ParseRecord(line string, lineNumber int) models.Record {
	record := models.Record{
		LineNumber: lineNumber,
		Projects:   []string{},
		Contexts:   []string{},
	}

	tokens := strings.Fields(line)
	i := 0

	if i < len(tokens) && tokens[i] == CompletedMarker {
		record.Completed = true
		i++
		if i < len(tokens) {
			if d, ok := ParseDate(tokens[i]); ok {
				record.CompletionDate = &d
				i++
			}
		}
	}

	if !record.Completed && i < len(tokens) {
		if p, ok := ParsePriorityToken(tokens[i]); ok {
			record.Priority = p
			i++
		}
	}

	if i < len(tokens) {
		if d, ok := ParseDate(tokens[i]); ok {
			record.CreationDate = &d
			i++
		}
	}

	var words []string
	for _, tok := range tokens[i:] {
		switch {
		case len(tok) > len(ProjectSigil) && strings.HasPrefix(tok, ProjectSigil):
			record.Projects = appendUnique(record.Projects, tok[len(ProjectSigil):])
		case len(tok) > len(ContextSigil) && strings.HasPrefix(tok, ContextSigil):
			record.Contexts = appendUnique(record.Contexts, tok[len(ContextSigil):])
		case len(tok) > len(IDPrefix) && strings.HasPrefix(tok, IDPrefix):
			record.ID = tok[len(IDPrefix):]
		default:
			words = append(words, tok)
		}
	}
	record.Description = strings.Join(words, " ")

	return record
}

// FormatRecord renders a record back into canonical todo.txt form.
// Completed records never carry a priority token since the parser does not
// read one after the completion marker.
func FormatRecord(r models.Record) string {
	var parts []string

	if r.Completed {
		parts = append(parts, CompletedMarker)
		if r.CompletionDate != nil {
			parts = append(parts, FormatDate(*r.CompletionDate))
		}
	} else if r.HasPriority() {
		parts = append(parts, FormatPriority(r.Priority))
	}

	if r.CreationDate != nil {
		parts = append(parts, FormatDate(*r.CreationDate))
	}
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	for _, p := range r.Projects {
		parts = append(parts, ProjectSigil+p)
	}
	for _, c := range r.Contexts {
		parts = append(parts, ContextSigil+c)
	}
	if r.ID != "" {
		parts = append(parts, IDPrefix+r.ID)
	}

	return strings.Join(parts, " ")
}

// ErrAmbiguousRecord is returned when a record would not read back as itself
var ErrAmbiguousRecord = errors.New("record does not survive a round trip")

// ValidateRecord formats r and parses the result again, failing when the
// completion marker, priority, creation date, description or id would change.
// A description starting with "x", "(X)" or a date is the usual culprit,
// as is an inline id: token.
func ValidateRecord(r models.Record) (models.Record, error) {
	parsed := ParseRecord(FormatRecord(r), r.LineNumber)

	switch {
	case parsed.Completed != r.Completed:
		return parsed, fmt.Errorf("%w: description reads as a completion marker", ErrAmbiguousRecord)
	case parsed.Priority != r.Priority:
		return parsed, fmt.Errorf("%w: description reads as a priority", ErrAmbiguousRecord)
	case !sameDate(parsed.CreationDate, r.CreationDate):
		return parsed, fmt.Errorf("%w: description reads as a creation date", ErrAmbiguousRecord)
	case parsed.Description != r.Description:
		return parsed, fmt.Errorf("%w: description %q reads back as %q", ErrAmbiguousRecord, r.Description, parsed.Description)
	case parsed.ID != r.ID:
		return parsed, fmt.Errorf("%w: id %q reads back as %q", ErrAmbiguousRecord, r.ID, parsed.ID)
	}
	return parsed, nil
}

// SplitTags separates +project and @context tokens from the words of a
// free-form description
func SplitTags(text string) (words, projects, contexts []string) {
	projects, contexts = []string{}, []string{}
	for _, tok := range strings.Fields(text) {
		switch {
		case len(tok) > len(ProjectSigil) && strings.HasPrefix(tok, ProjectSigil):
			projects = appendUnique(projects, tok[len(ProjectSigil):])
		case len(tok) > len(ContextSigil) && strings.HasPrefix(tok, ContextSigil):
			contexts = appendUnique(contexts, tok[len(ContextSigil):])
		default:
			words = append(words, tok)
		}
	}
	return words, projects, contexts
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// LineID returns the identifier carried by a raw line, or ""
func LineID(line string) string {
	return ParseRecord(line, 0).ID
}

// IsBlank reports whether a line holds no record
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
