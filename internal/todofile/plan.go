package todofile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torudo-dev/torudo/internal/parser"
)

const frontMatterDelimiter = "---"

// PlanMeta is the YAML front matter of a detail file
type PlanMeta struct {
	TmuxPane string `yaml:"tmux_pane,omitempty"`
}

// Plan is the per-record detail document opened in the editor
type Plan struct {
	Meta PlanMeta
	Body string
}

// DetailPath returns the path of the detail file for a record id
func (s *Store) DetailPath(id string) string {
	ext := strings.TrimPrefix(s.DetailExt, ".")
	if ext == "" {
		ext = "md"
	}
	dir := s.DetailDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(s.Path), "todos")
	}
	return filepath.Join(dir, id+"."+ext)
}

// WritePlan creates or replaces the detail file of a record
func (s *Store) WritePlan(id string, plan Plan) error {
	if !parser.IsValidID(id) {
		return fmt.Errorf("invalid record id '%s'", id)
	}

	path := s.DetailPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create detail directory: %w", err)
	}

	content, err := encodePlan(plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// ReadPlan loads the detail file of a record.
// A missing file yields os.ErrNotExist wrapped in the returned error.
func (s *Store) ReadPlan(id string) (Plan, error) {
	if !parser.IsValidID(id) {
		return Plan{}, fmt.Errorf("invalid record id '%s'", id)
	}

	content, err := os.ReadFile(s.DetailPath(id))
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan: %w", err)
	}
	return decodePlan(content)
}

// HasPlan reports whether a detail file exists for the record
func (s *Store) HasPlan(id string) bool {
	if !parser.IsValidID(id) {
		return false
	}
	_, err := os.Stat(s.DetailPath(id))
	return err == nil
}

func encodePlan(plan Plan) ([]byte, error) {
	var buf bytes.Buffer
	if plan.Meta != (PlanMeta{}) {
		meta, err := yaml.Marshal(plan.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode plan metadata: %w", err)
		}
		buf.WriteString(frontMatterDelimiter + "\n")
		buf.Write(meta)
		buf.WriteString(frontMatterDelimiter + "\n")
	}
	buf.WriteString(plan.Body)
	if plan.Body != "" && !strings.HasSuffix(plan.Body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func decodePlan(content []byte) (Plan, error) {
	text := string(content)
	if !strings.HasPrefix(text, frontMatterDelimiter+"\n") {
		return Plan{Body: text}, nil
	}

	rest := "\n" + text[len(frontMatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return Plan{}, errors.New("unterminated front matter")
	}

	var plan Plan
	if err := yaml.Unmarshal([]byte(rest[:end]), &plan.Meta); err != nil {
		return Plan{}, fmt.Errorf("failed to parse plan metadata: %w", err)
	}

	body := rest[end+1+len(frontMatterDelimiter):]
	plan.Body = strings.TrimPrefix(body, "\n")
	return plan, nil
}
