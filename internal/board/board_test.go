package board

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/torudo-dev/torudo/internal/models"
	"github.com/torudo-dev/torudo/internal/monitor"
	"github.com/torudo-dev/torudo/internal/todofile"
)

type fakeEditor struct {
	opened    []string
	scratches int
	terminals int
	sent      []string
	openErr   error
	termErr   error
}

func (f *fakeEditor) Open(path string) error {
	f.opened = append(f.opened, path)
	return f.openErr
}

func (f *fakeEditor) NewScratch() error {
	f.scratches++
	return nil
}

func (f *fakeEditor) OpenTerminal() (int64, error) {
	f.terminals++
	if f.termErr != nil {
		return 0, f.termErr
	}
	return 3, nil
}

func (f *fakeEditor) Send(channel int64, data string) error {
	f.sent = append(f.sent, data)
	return nil
}

type fakeMonitor struct {
	sessions []monitor.Session
	switched []string
}

func (f *fakeMonitor) Sessions() []monitor.Session {
	out := make([]monitor.Session, len(f.sessions))
	copy(out, f.sessions)
	return out
}

func (f *fakeMonitor) Capture(paneID string) (string, error) {
	return "screen of " + paneID, nil
}

func (f *fakeMonitor) SwitchTo(paneID string) error {
	f.switched = append(f.switched, paneID)
	return nil
}

type fakeJournal struct {
	entries []models.Completion
}

func (f *fakeJournal) Record(entry models.Completion) error {
	f.entries = append(f.entries, entry)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	board   *Board
	store   *todofile.Store
	editor  *fakeEditor
	monitor *fakeMonitor
	journal *fakeJournal
	clock   *clock
}

const sampleTodo = "(B) t2 +alpha id:2\n(A) t1 +alpha id:1\nt3 +beta id:3\n"

func newFixture(t *testing.T, content string, withMonitor bool) *fixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), "todo.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	store := todofile.New(path)

	f := &fixture{
		store:   store,
		editor:  &fakeEditor{},
		journal: &fakeJournal{},
		clock:   &clock{t: time.Date(2024, 5, 17, 12, 0, 0, 0, time.Local)},
	}
	store.Now = f.clock.now

	opts := Options{
		Store:   store,
		Editor:  f.editor,
		Journal: f.journal,
		Now:     f.clock.now,
	}
	if withMonitor {
		f.monitor = &fakeMonitor{sessions: []monitor.Session{
			{PaneID: "%1", Project: "alpha", Status: monitor.StatusWorking},
			{PaneID: "%2", Project: "beta", Status: monitor.StatusIdle},
		}}
		opts.Monitor = f.monitor
	}

	records, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	f.board = New(opts, records)
	return f
}

func (f *fixture) lastOpened(t *testing.T) string {
	t.Helper()
	if len(f.editor.opened) == 0 {
		t.Fatal("nothing was opened")
	}
	return filepath.Base(f.editor.opened[len(f.editor.opened)-1])
}

func TestInitialSelection(t *testing.T) {
	f := newFixture(t, sampleTodo, false)

	if got := f.board.Columns(); strings.Join(got, ",") != "alpha,beta" {
		t.Fatalf("columns = %v", got)
	}
	r, ok := f.board.CurrentRecord()
	if !ok || r.ID != "1" {
		t.Fatalf("current record = %+v, %v", r, ok)
	}

	f.board.FocusCurrent()
	if got := f.lastOpened(t); got != "1.md" {
		t.Errorf("opened %q", got)
	}
}

func TestRowNavigation(t *testing.T) {
	f := newFixture(t, sampleTodo, false)

	f.board.Up()
	if len(f.editor.opened) != 0 {
		t.Error("up at row 0 should be a no-op")
	}

	f.board.Down()
	if f.board.Row() != 1 || f.lastOpened(t) != "2.md" {
		t.Errorf("row = %d, opened %v", f.board.Row(), f.editor.opened)
	}

	f.board.Down()
	if f.board.Row() != 1 || len(f.editor.opened) != 1 {
		t.Error("down at last row should be a no-op")
	}

	f.board.Up()
	if f.board.Row() != 0 || f.lastOpened(t) != "1.md" {
		t.Errorf("row = %d, opened %v", f.board.Row(), f.editor.opened)
	}
}

func TestColumnNavigation(t *testing.T) {
	f := newFixture(t, sampleTodo, false)
	f.board.Down()

	f.board.Right()
	if f.board.Column() != 1 || f.board.Row() != 0 || f.lastOpened(t) != "3.md" {
		t.Errorf("column = %d row = %d opened %v", f.board.Column(), f.board.Row(), f.editor.opened)
	}

	opened := len(f.editor.opened)
	f.board.Right()
	if f.board.Column() != 1 || len(f.editor.opened) != opened {
		t.Error("right at last column should be a no-op")
	}

	f.board.Left()
	if f.board.Column() != 0 || f.board.Row() != 0 || f.lastOpened(t) != "1.md" {
		t.Errorf("column = %d row = %d", f.board.Column(), f.board.Row())
	}

	opened = len(f.editor.opened)
	f.board.Left()
	if f.board.Column() != 0 || len(f.editor.opened) != opened {
		t.Error("left at column 0 should be a no-op")
	}
}

func TestMonitorColumnPreview(t *testing.T) {
	f := newFixture(t, sampleTodo, true)

	if f.board.TotalColumns() != 3 {
		t.Fatalf("total columns = %d", f.board.TotalColumns())
	}

	f.board.Right()
	f.board.Right()
	if !f.board.OnMonitorColumn() {
		t.Fatal("expected to be on the session column")
	}
	if !f.board.PreviewActive() || f.editor.scratches != 1 || f.editor.terminals != 1 {
		t.Fatalf("preview not entered: %+v", f.editor)
	}
	if len(f.editor.sent) != 1 || f.editor.sent[0] != "\x1b[2J\x1b[Hscreen of %1" {
		t.Fatalf("sent = %q", f.editor.sent)
	}
	if _, ok := f.board.CurrentRecord(); ok {
		t.Error("no record should be selected on the session column")
	}

	f.board.Down()
	if f.board.SessionRow() != 1 || f.editor.sent[len(f.editor.sent)-1] != "\x1b[2J\x1b[Hscreen of %2" {
		t.Errorf("session row = %d, sent %q", f.board.SessionRow(), f.editor.sent)
	}
	f.board.Down()
	if f.board.SessionRow() != 1 || len(f.editor.sent) != 2 {
		t.Error("down at last session should be a no-op")
	}

	opened := len(f.editor.opened)
	f.board.Left()
	if f.board.PreviewActive() {
		t.Error("preview should be torn down")
	}
	if f.board.Column() != 1 || f.board.Row() != 0 {
		t.Errorf("column = %d row = %d", f.board.Column(), f.board.Row())
	}
	if len(f.editor.opened) != opened+1 || f.lastOpened(t) != "3.md" {
		t.Errorf("expected exactly one focus call, opened %v", f.editor.opened[opened:])
	}
}

func TestEnterPreviewFailure(t *testing.T) {
	f := newFixture(t, "a +p id:1\n", true)
	f.editor.termErr = errors.New("connection refused")

	f.board.Right()
	if !f.board.OnMonitorColumn() {
		t.Fatal("navigation must proceed when the editor fails")
	}
	if f.board.PreviewActive() {
		t.Error("preview should stay inactive")
	}
	if len(f.editor.sent) != 0 {
		t.Errorf("nothing should be sent, got %q", f.editor.sent)
	}
}

func TestPreviewThrottle(t *testing.T) {
	tests := []struct {
		name   string
		status monitor.Status
		want   int
	}{
		{"working", monitor.StatusWorking, 1},
		{"idle", monitor.StatusIdle, 0},
		{"waiting", monitor.StatusWaitingForApproval, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "a +p id:1\n", true)
			f.monitor.sessions[0].Status = tt.status

			f.board.Right()
			entered := len(f.editor.sent)

			f.clock.advance(2 * time.Second)
			f.board.Tick()
			f.clock.advance(500 * time.Millisecond)
			f.board.Tick()

			if got := len(f.editor.sent) - entered; got != tt.want {
				t.Errorf("auto pushes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTickWithoutPreview(t *testing.T) {
	f := newFixture(t, sampleTodo, true)
	f.board.Tick()
	if len(f.editor.sent) != 0 {
		t.Error("tick without an active preview must not push")
	}
}

func TestReloadClampsSelection(t *testing.T) {
	for _, withMonitor := range []bool{false, true} {
		f := newFixture(t, sampleTodo, withMonitor)
		f.board.column = 999
		f.board.row = 999

		f.board.Reload()

		if f.board.Column() >= f.board.TotalColumns() {
			t.Errorf("monitor=%v: column %d out of %d", withMonitor, f.board.Column(), f.board.TotalColumns())
		}
		if !f.board.OnMonitorColumn() && f.board.Row() >= len(f.board.ColumnRecords(f.board.Column())) {
			t.Errorf("monitor=%v: row %d out of range", withMonitor, f.board.Row())
		}
	}
}

func TestReloadEmptyFile(t *testing.T) {
	f := newFixture(t, sampleTodo, false)
	f.board.Right()

	if err := os.WriteFile(f.store.Path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	f.board.Reload()

	if f.board.Column() != 0 || f.board.Row() != 0 || f.board.TotalColumns() != 0 {
		t.Errorf("column = %d row = %d total = %d", f.board.Column(), f.board.Row(), f.board.TotalColumns())
	}
	if _, ok := f.board.CurrentRecord(); ok {
		t.Error("no record should be selected")
	}

	// navigation on an empty board is inert
	f.board.Up()
	f.board.Down()
	f.board.Left()
	f.board.Right()
	f.board.Complete()
}

func TestReloadGroupDisappears(t *testing.T) {
	f := newFixture(t, sampleTodo, false)
	f.board.Right()

	if err := os.WriteFile(f.store.Path, []byte("only +alpha id:9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f.board.Reload()

	r, ok := f.board.CurrentRecord()
	if !ok || r.ID != "9" || f.board.Column() != 0 {
		t.Errorf("current = %+v column = %d", r, f.board.Column())
	}
	if f.lastOpened(t) != "9.md" {
		t.Errorf("opened %v", f.editor.opened)
	}
}

func TestReloadFailureKeepsState(t *testing.T) {
	f := newFixture(t, sampleTodo, false)
	f.board.Down()

	if err := os.Remove(f.store.Path); err != nil {
		t.Fatal(err)
	}
	f.board.Reload()

	if len(f.board.Records()) != 3 || f.board.Row() != 1 {
		t.Errorf("state changed after failed reload: records=%d row=%d", len(f.board.Records()), f.board.Row())
	}
}

func TestReloadKeepsSessionColumn(t *testing.T) {
	f := newFixture(t, sampleTodo, true)
	f.board.Right()
	f.board.Right()

	if err := os.WriteFile(f.store.Path, []byte(sampleTodo+"t4 +gamma id:4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f.board.Reload()

	if !f.board.OnMonitorColumn() || !f.board.PreviewActive() {
		t.Errorf("column = %d of %d, preview = %v", f.board.Column(), f.board.TotalColumns(), f.board.PreviewActive())
	}
}

func TestReloadClampOntoSessionColumnOpensPreview(t *testing.T) {
	f := newFixture(t, "", true)
	f.board.column = 999

	f.board.reload()

	if !f.board.OnMonitorColumn() || f.board.TotalColumns() != 1 {
		t.Fatalf("column = %d of %d", f.board.Column(), f.board.TotalColumns())
	}
	if !f.board.PreviewActive() || f.editor.terminals != 1 {
		t.Errorf("preview not entered: %+v", f.editor)
	}
	if len(f.editor.sent) != 1 || f.editor.sent[0] != "\x1b[2J\x1b[Hscreen of %1" {
		t.Errorf("sent = %q", f.editor.sent)
	}

	f.board.Down()
	if f.editor.sent[len(f.editor.sent)-1] != "\x1b[2J\x1b[Hscreen of %2" {
		t.Errorf("down should push the next session, sent %q", f.editor.sent)
	}
}

func TestCompleteLastRecordOfLastProject(t *testing.T) {
	f := newFixture(t, "only +alpha id:1\n", true)

	f.board.Complete()

	if !f.board.OnMonitorColumn() || !f.board.PreviewActive() {
		t.Errorf("column = %d of %d, preview = %v", f.board.Column(), f.board.TotalColumns(), f.board.PreviewActive())
	}
}

func TestReloadAddsMissingIDs(t *testing.T) {
	f := newFixture(t, "no id yet +p\n", false)
	if r, _ := f.board.CurrentRecord(); r.ID != "" {
		t.Fatalf("unexpected id %q", r.ID)
	}

	f.board.Reload()

	r, ok := f.board.CurrentRecord()
	if !ok || r.ID == "" {
		t.Fatalf("expected an id after reload, got %+v", r)
	}
	if f.lastOpened(t) != r.ID+".md" {
		t.Errorf("opened %v", f.editor.opened)
	}
}

func TestComplete(t *testing.T) {
	f := newFixture(t, sampleTodo, false)

	f.board.Complete()

	for _, r := range f.board.Records() {
		if r.ID == "1" {
			t.Fatal("completed record still on the board")
		}
	}
	if r, _ := f.board.CurrentRecord(); r.ID != "2" {
		t.Errorf("selection after completion = %q", r.ID)
	}
	if len(f.journal.entries) != 1 {
		t.Fatalf("journal entries = %d", len(f.journal.entries))
	}
	entry := f.journal.entries[0]
	if entry.RecordID != "1" || entry.Priority != "A" || entry.Projects != "alpha" {
		t.Errorf("unexpected journal entry %+v", entry)
	}
	if !strings.HasPrefix(entry.Line, "x (A) 2024-05-17 t1") {
		t.Errorf("line = %q", entry.Line)
	}

	done, err := os.ReadFile(f.store.DonePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(done) != entry.Line+"\n" {
		t.Errorf("done file = %q", done)
	}
}

func TestSwitchPane(t *testing.T) {
	f := newFixture(t, sampleTodo, true)

	f.board.SwitchPane()
	if len(f.monitor.switched) != 0 {
		t.Error("switch outside the session column should be ignored")
	}

	f.board.Right()
	f.board.Right()
	f.board.Down()
	f.board.SwitchPane()
	if len(f.monitor.switched) != 1 || f.monitor.switched[0] != "%2" {
		t.Errorf("switched = %v", f.monitor.switched)
	}
}

func TestSessionsShrink(t *testing.T) {
	f := newFixture(t, sampleTodo, true)
	f.board.Right()
	f.board.Right()
	f.board.Down()

	f.monitor.sessions = f.monitor.sessions[:1]
	if _, ok := f.board.CurrentSession(); ok {
		t.Error("stale session index should not resolve")
	}
	f.board.Tick()
	f.board.SwitchPane()
	if len(f.monitor.switched) != 0 {
		t.Error("switch with a stale index must be inert")
	}

	f.board.Reload()
	if f.board.SessionRow() != 0 {
		t.Errorf("session row = %d", f.board.SessionRow())
	}
}

func TestHasPlan(t *testing.T) {
	f := newFixture(t, sampleTodo, false)

	if f.board.HasPlan("1") || f.board.HasPlan("") {
		t.Fatal("no detail file exists yet")
	}
	if err := f.store.WritePlan("1", todofile.Plan{Body: "steps\n"}); err != nil {
		t.Fatal(err)
	}
	if !f.board.HasPlan("1") {
		t.Error("detail file not detected")
	}
}
