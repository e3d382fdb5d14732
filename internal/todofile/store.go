package todofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/torudo-dev/torudo/internal/models"
	"github.com/torudo-dev/torudo/internal/parser"
)

// DoneFileName is the default name of the archive written next to todo.txt
const DoneFileName = "done.txt"

// ErrEmptyDescription is returned when appending a record without text
var ErrEmptyDescription = errors.New("description cannot be empty")

// Store reads and rewrites a todo.txt file and its done.txt companion.
// Every mutation is a full-file rewrite; the last writer wins.
type Store struct {
	Path      string
	DonePath  string
	DetailDir string
	DetailExt string
	Now       func() time.Time
}

// New creates a store for the given todo.txt path with sibling defaults
func New(path string) *Store {
	dir := filepath.Dir(path)
	return &Store{
		Path:      path,
		DonePath:  filepath.Join(dir, DoneFileName),
		DetailDir: filepath.Join(dir, "todos"),
		DetailExt: "md",
		Now:       time.Now,
	}
}

// AppendRequest holds the data needed to add a new record
type AppendRequest struct {
	Description string
	Project     string
	Priority    string // letter, "(X)" form or empty
}

// Load reads all non-blank lines, sorted by priority class then line number
func (s *Store) Load() ([]models.Record, error) {
	lines, _, err := s.readLines(s.Path)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(lines))
	for i, line := range lines {
		if parser.IsBlank(line) {
			continue
		}
		records = append(records, parser.ParseRecord(line, i+1))
	}

	models.SortRecords(records)
	return records, nil
}

// EnsureIDs gives every non-blank line without an identifier a fresh one.
// Lines that already carry an id are written back unchanged, and the file is
// only rewritten when at least one line was modified.
func (s *Store) EnsureIDs() (int, error) {
	lines, trailing, err := s.readLines(s.Path)
	if err != nil {
		return 0, err
	}

	added := 0
	for i, line := range lines {
		if parser.IsBlank(line) || parser.LineID(line) != "" {
			continue
		}
		lines[i] = parser.WithID(line, parser.NewID())
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := writeLines(s.Path, lines, trailing); err != nil {
		return 0, err
	}
	return added, nil
}

// MarkComplete moves the record with the given id into the done file.
// An unknown id is not an error: found is false and nothing is written.
func (s *Store) MarkComplete(id string) (string, bool, error) {
	if id == "" {
		return "", false, nil
	}

	lines, trailing, err := s.readLines(s.Path)
	if err != nil {
		return "", false, err
	}

	index := -1
	for i, line := range lines {
		if parser.IsBlank(line) {
			continue
		}
		if parser.LineID(line) == id {
			index = i
			break
		}
	}
	if index < 0 {
		return "", false, nil
	}

	completed := s.completeLine(lines[index])

	if err := s.appendDone(completed); err != nil {
		return "", false, err
	}

	remaining := append(lines[:index:index], lines[index+1:]...)
	if err := writeLines(s.Path, remaining, trailing); err != nil {
		return "", false, err
	}

	return completed, true, nil
}

// Append adds a new record line with a freshly allocated identifier.
// +project and @context tokens inside the description become tags. A
// description that would read back as a different record is rejected with
// parser.ErrAmbiguousRecord and nothing is written.
func (s *Store) Append(req AppendRequest) (models.Record, error) {
	words, projects, contexts := parser.SplitTags(req.Description)
	description := strings.Join(words, " ")
	if description == "" {
		return models.Record{}, ErrEmptyDescription
	}

	priority, err := parser.NormalizePriority(req.Priority)
	if err != nil {
		return models.Record{}, err
	}

	if project := strings.TrimPrefix(strings.TrimSpace(req.Project), parser.ProjectSigil); project != "" {
		projects = append([]string{project}, projects...)
	}
	record := models.Record{
		Priority:    priority,
		Description: description,
		Projects:    dedupe(projects),
		Contexts:    contexts,
		ID:          parser.NewID(),
	}

	lines, _, err := s.readLines(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.Record{}, err
	}
	record.LineNumber = len(lines) + 1

	parsed, err := parser.ValidateRecord(record)
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to append record: %w", err)
	}
	lines = append(lines, parser.FormatRecord(record))

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return models.Record{}, fmt.Errorf("failed to create todo directory: %w", err)
	}
	if err := writeLines(s.Path, lines, true); err != nil {
		return models.Record{}, err
	}

	return parsed, nil
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// completeLine builds the done.txt form of a raw line.
// An already completed line is kept verbatim; otherwise the completion marker
// and today's date are prepended and a leading priority token is lifted in
// front of the date.
func (s *Store) completeLine(line string) string {
	if parser.ParseRecord(line, 0).Completed {
		return line
	}

	today := parser.FormatDate(s.now())
	trimmed := strings.TrimLeft(line, " \t")
	fields := strings.Fields(trimmed)
	if len(fields) > 0 {
		if _, ok := parser.ParsePriorityToken(fields[0]); ok {
			rest := strings.TrimLeft(trimmed[len(fields[0]):], " \t")
			return fmt.Sprintf("%s %s %s %s", parser.CompletedMarker, fields[0], today, rest)
		}
	}
	return fmt.Sprintf("%s %s %s", parser.CompletedMarker, today, line)
}

// appendDone adds a line to the done file. Existing content is terminated by
// a single newline first and the file always ends with one.
func (s *Store) appendDone(line string) error {
	content, err := os.ReadFile(s.donePath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read done file: %w", err)
	}

	existing := strings.TrimRight(string(content), "\n")
	var b strings.Builder
	if existing != "" {
		b.WriteString(existing)
		b.WriteString("\n")
	}
	b.WriteString(line)
	b.WriteString("\n")

	if err := os.WriteFile(s.donePath(), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write done file: %w", err)
	}
	return nil
}

func (s *Store) donePath() string {
	if s.DonePath != "" {
		return s.DonePath
	}
	return filepath.Join(filepath.Dir(s.Path), DoneFileName)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// readLines splits a file into lines and reports whether it ended with a newline
func (s *Store) readLines(path string) ([]string, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(content) == 0 {
		return nil, false, nil
	}

	text := string(content)
	trailing := strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n"), trailing, nil
}

func writeLines(path string, lines []string, trailing bool) error {
	content := strings.Join(lines, "\n")
	if trailing && content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
