package models

import (
	"sort"
	"time"
)

// NoProject is the group name used for records without any +project tag
const NoProject = "No Project"

// Record represents one parsed line of a todo.txt file
type Record struct {
	Completed      bool       `json:"completed"`
	Priority       rune       `json:"-"` // 0 = no priority, otherwise 'A'..'Z'
	CreationDate   *time.Time `json:"created,omitempty"`
	CompletionDate *time.Time `json:"completed_at,omitempty"`
	Description    string     `json:"description"`
	Projects       []string   `json:"projects"`
	Contexts       []string   `json:"contexts"`
	ID             string     `json:"id,omitempty"`
	LineNumber     int        `json:"line"`
}

// HasPriority reports whether the record carries a priority letter
func (r Record) HasPriority() bool {
	return r.Priority != 0
}

// PriorityLabel returns the priority letter or an empty string
func (r Record) PriorityLabel() string {
	if r.Priority == 0 {
		return ""
	}
	return string(r.Priority)
}

// Groups is the project index built from a record list
type Groups struct {
	Names  []string
	ByName map[string][]Record
}

// Records returns the records of the named group, or nil
func (g Groups) Records(name string) []Record {
	return g.ByName[name]
}

// Len returns the number of groups
func (g Groups) Len() int {
	return len(g.Names)
}

// GroupByProject buckets records by project tag.
// A record with several tags lands in each of their groups, a record with none
// lands in NoProject. Group names are sorted, rows keep the input order.
func GroupByProject(records []Record) Groups {
	groups := Groups{ByName: make(map[string][]Record)}

	for _, r := range records {
		if len(r.Projects) == 0 {
			groups.add(NoProject, r)
			continue
		}
		for _, p := range r.Projects {
			groups.add(p, r)
		}
	}

	sort.Strings(groups.Names)
	return groups
}

func (g *Groups) add(name string, r Record) {
	if _, ok := g.ByName[name]; !ok {
		g.Names = append(g.Names, name)
	}
	g.ByName[name] = append(g.ByName[name], r)
}

// SortRecords orders records by priority class (A first, no priority last),
// then by line number
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.HasPriority() != b.HasPriority() {
			return a.HasPriority()
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.LineNumber < b.LineNumber
	})
}
