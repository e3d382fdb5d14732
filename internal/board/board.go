package board

import (
	"io"
	"log/slog"
	"time"

	"github.com/torudo-dev/torudo/internal/models"
	"github.com/torudo-dev/torudo/internal/monitor"
)

// Editor is the subset of the Neovim client the board drives
type Editor interface {
	Open(path string) error
	NewScratch() error
	OpenTerminal() (int64, error)
	Send(channel int64, data string) error
}

// Monitor exposes agent sessions running in tmux
type Monitor interface {
	Sessions() []monitor.Session
	Capture(paneID string) (string, error)
	SwitchTo(paneID string) error
}

// Store is the todo.txt file the board reads and mutates
type Store interface {
	Load() ([]models.Record, error)
	EnsureIDs() (int, error)
	MarkComplete(id string) (string, bool, error)
	DetailPath(id string) string
	HasPlan(id string) bool
}

// Journal records completions outside of done.txt
type Journal interface {
	Record(entry models.Completion) error
}

// Options wires a board to its collaborators. Monitor and Journal are optional.
type Options struct {
	Store           Store
	Editor          Editor
	Monitor         Monitor
	Journal         Journal
	PreviewInterval time.Duration
	Now             func() time.Time
	Logger          *slog.Logger
}

// Board is the navigation state over grouped records plus an optional
// trailing column of monitored sessions
type Board struct {
	store   Store
	editor  Editor
	monitor Monitor
	journal Journal
	now     func() time.Time
	logger  *slog.Logger

	records []models.Record
	groups  models.Groups

	column     int
	row        int
	sessionRow int

	preview         previewState
	previewInterval time.Duration
}

// New builds a board over an already loaded record list
func New(opts Options, records []models.Record) *Board {
	b := &Board{
		store:           opts.Store,
		editor:          opts.Editor,
		monitor:         opts.Monitor,
		journal:         opts.Journal,
		now:             opts.Now,
		logger:          opts.Logger,
		previewInterval: opts.PreviewInterval,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if b.previewInterval <= 0 {
		b.previewInterval = DefaultPreviewInterval
	}
	b.logger = b.logger.With(slog.String("component", "board"))

	b.setRecords(records)
	return b
}

func (b *Board) setRecords(records []models.Record) {
	b.records = records
	b.groups = models.GroupByProject(records)
}

// MonitorEnabled reports whether the session column is shown
func (b *Board) MonitorEnabled() bool {
	return b.monitor != nil
}

// TotalColumns counts project columns plus the session column
func (b *Board) TotalColumns() int {
	n := b.groups.Len()
	if b.MonitorEnabled() {
		n++
	}
	return n
}

// OnMonitorColumn reports whether the selection is on the session column
func (b *Board) OnMonitorColumn() bool {
	return b.MonitorEnabled() && b.column == b.groups.Len()
}

// Columns returns the project names in display order
func (b *Board) Columns() []string {
	return b.groups.Names
}

// ColumnRecords returns the rows of a project column
func (b *Board) ColumnRecords(i int) []models.Record {
	if i < 0 || i >= b.groups.Len() {
		return nil
	}
	return b.groups.Records(b.groups.Names[i])
}

// Records returns every loaded record in load order
func (b *Board) Records() []models.Record {
	return b.records
}

// Column returns the selected column index
func (b *Board) Column() int { return b.column }

// Row returns the selected row within a project column
func (b *Board) Row() int { return b.row }

// SessionRow returns the selected row within the session column
func (b *Board) SessionRow() int { return b.sessionRow }

// Sessions returns a snapshot of the monitored sessions
func (b *Board) Sessions() []monitor.Session {
	if b.monitor == nil {
		return nil
	}
	return b.monitor.Sessions()
}

// CurrentRecord returns the record under the selection
func (b *Board) CurrentRecord() (models.Record, bool) {
	if b.OnMonitorColumn() {
		return models.Record{}, false
	}
	rows := b.ColumnRecords(b.column)
	if b.row < 0 || b.row >= len(rows) {
		return models.Record{}, false
	}
	return rows[b.row], true
}

// CurrentSession returns the session under the selection on the session column
func (b *Board) CurrentSession() (monitor.Session, bool) {
	if !b.OnMonitorColumn() {
		return monitor.Session{}, false
	}
	sessions := b.Sessions()
	if b.sessionRow < 0 || b.sessionRow >= len(sessions) {
		return monitor.Session{}, false
	}
	return sessions[b.sessionRow], true
}

// HasPlan reports whether a record has a detail file
func (b *Board) HasPlan(id string) bool {
	if b.store == nil || id == "" {
		return false
	}
	return b.store.HasPlan(id)
}

// FocusCurrent opens the detail file of the selected record in the editor
func (b *Board) FocusCurrent() {
	r, ok := b.CurrentRecord()
	if !ok || r.ID == "" || b.editor == nil || b.store == nil {
		return
	}
	path := b.store.DetailPath(r.ID)
	if err := b.editor.Open(path); err != nil {
		b.logger.Debug("focus failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	b.logger.Debug("focused record", slog.String("id", r.ID))
}

func lastIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > lastIndex(n) {
		return lastIndex(n)
	}
	return v
}
