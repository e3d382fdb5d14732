package models

import (
	"reflect"
	"testing"
)

func rec(line int, prio rune, projects ...string) Record {
	return Record{LineNumber: line, Priority: prio, Projects: projects, Description: "t"}
}

func TestGroupByProject(t *testing.T) {
	records := []Record{
		rec(1, 'A', "work"),
		rec(2, 0, "home", "work"),
		rec(3, 0),
		rec(4, 'B', "alpha"),
	}

	groups := GroupByProject(records)

	wantNames := []string{"No Project", "alpha", "home", "work"}
	if !reflect.DeepEqual(groups.Names, wantNames) {
		t.Fatalf("names = %v, want %v", groups.Names, wantNames)
	}

	work := groups.Records("work")
	if len(work) != 2 || work[0].LineNumber != 1 || work[1].LineNumber != 2 {
		t.Errorf("work group = %+v", work)
	}
	if got := groups.Records("home"); len(got) != 1 || got[0].LineNumber != 2 {
		t.Errorf("home group = %+v", got)
	}
	if got := groups.Records(NoProject); len(got) != 1 || got[0].LineNumber != 3 {
		t.Errorf("no project group = %+v", got)
	}
}

func TestGroupByProjectEmpty(t *testing.T) {
	groups := GroupByProject(nil)
	if groups.Len() != 0 {
		t.Errorf("expected no groups, got %v", groups.Names)
	}
	if groups.Records("anything") != nil {
		t.Error("expected nil records for unknown group")
	}
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		rec(1, 0),
		rec(2, 'B'),
		rec(3, 'A'),
		rec(4, 0),
		rec(5, 'A'),
	}

	SortRecords(records)

	var lines []int
	for _, r := range records {
		lines = append(lines, r.LineNumber)
	}
	want := []int{3, 5, 2, 1, 4}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("order = %v, want %v", lines, want)
	}
}

func TestPriorityLabel(t *testing.T) {
	if got := (Record{Priority: 'C'}).PriorityLabel(); got != "C" {
		t.Errorf("got %q", got)
	}
	if got := (Record{}).PriorityLabel(); got != "" {
		t.Errorf("got %q", got)
	}
}
