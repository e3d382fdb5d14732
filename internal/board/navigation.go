package board

import (
	"log/slog"
	"strings"

	"github.com/torudo-dev/torudo/internal/models"
)

// Up moves to the previous row
func (b *Board) Up() {
	if b.OnMonitorColumn() {
		if b.sessionRow > 0 {
			b.sessionRow--
			b.pushPreview()
		}
		return
	}
	if b.row > 0 {
		b.row--
		b.FocusCurrent()
	}
}

// Down moves to the next row
func (b *Board) Down() {
	if b.OnMonitorColumn() {
		if b.sessionRow < lastIndex(len(b.Sessions())) {
			b.sessionRow++
			b.pushPreview()
		}
		return
	}
	if b.row < lastIndex(len(b.ColumnRecords(b.column))) {
		b.row++
		b.FocusCurrent()
	}
}

// Left moves to the previous column
func (b *Board) Left() {
	if b.column <= 0 {
		return
	}
	leaving := b.OnMonitorColumn()
	b.column--

	if b.OnMonitorColumn() {
		b.sessionRow = 0
		return
	}
	if leaving {
		b.leavePreview()
	}
	b.row = 0
	b.FocusCurrent()
}

// Right moves to the next column
func (b *Board) Right() {
	if b.column >= b.TotalColumns()-1 {
		return
	}
	b.column++

	if b.OnMonitorColumn() {
		b.sessionRow = 0
		b.enterPreview()
		b.pushPreview()
		return
	}
	b.row = 0
	b.FocusCurrent()
}

// Reload adds missing identifiers to the file and reloads it
func (b *Board) Reload() {
	if b.store == nil {
		return
	}
	if added, err := b.store.EnsureIDs(); err != nil {
		b.logger.Error("failed to add missing ids", slog.Any("error", err))
	} else if added > 0 {
		b.logger.Debug("added missing ids", slog.Int("count", added))
	}
	b.reload()
}

// reload re-reads the file and reconciles the selection with the new groups.
// A failed read leaves the current state untouched.
func (b *Board) reload() {
	records, err := b.store.Load()
	if err != nil {
		b.logger.Error("failed to reload records", slog.Any("error", err))
		return
	}
	b.logger.Debug("reloaded records", slog.Int("count", len(records)))

	wasOnMonitor := b.OnMonitorColumn()
	b.setRecords(records)
	b.reconcile(wasOnMonitor)
}

// reconcile clamps the selection into the current grid. An ordinary record
// is refocused in the editor; landing on the session column opens the preview.
func (b *Board) reconcile(keepMonitor bool) {
	if keepMonitor && b.MonitorEnabled() {
		b.column = b.groups.Len()
	} else {
		b.column = clamp(b.column, b.TotalColumns())
	}

	if b.OnMonitorColumn() {
		b.sessionRow = clamp(b.sessionRow, len(b.Sessions()))
		// a clamp can land here from a project column that vanished
		if !b.preview.active {
			b.enterPreview()
			b.pushPreview()
		}
		return
	}
	if b.preview.active {
		b.leavePreview()
	}
	b.row = clamp(b.row, len(b.ColumnRecords(b.column)))
	b.FocusCurrent()
}

// Complete marks the selected record done and reloads
func (b *Board) Complete() {
	r, ok := b.CurrentRecord()
	if !ok || r.ID == "" || b.store == nil {
		return
	}

	line, found, err := b.store.MarkComplete(r.ID)
	if err != nil {
		b.logger.Error("failed to mark record complete", slog.String("id", r.ID), slog.Any("error", err))
		return
	}
	if !found {
		b.logger.Debug("record vanished before completion", slog.String("id", r.ID))
		b.reload()
		return
	}
	b.logger.Debug("marked record complete", slog.String("id", r.ID))

	b.journalCompletion(r, line)
	b.reload()
}

func (b *Board) journalCompletion(r models.Record, line string) {
	if b.journal == nil {
		return
	}
	entry := models.Completion{
		RecordID:    r.ID,
		Description: r.Description,
		Projects:    strings.Join(r.Projects, " "),
		Priority:    r.PriorityLabel(),
		Line:        line,
		Source:      "tui",
		CompletedAt: b.now(),
	}
	if err := b.journal.Record(entry); err != nil {
		b.logger.Error("failed to journal completion", slog.Any("error", err))
	}
}

// SwitchPane moves tmux focus to the selected session
func (b *Board) SwitchPane() {
	session, ok := b.CurrentSession()
	if !ok {
		return
	}
	if err := b.monitor.SwitchTo(session.PaneID); err != nil {
		b.logger.Error("failed to switch pane", slog.String("pane", session.PaneID), slog.Any("error", err))
	}
}
