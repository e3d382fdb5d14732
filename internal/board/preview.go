package board

import (
	"log/slog"
	"time"

	"github.com/torudo-dev/torudo/internal/monitor"
)

// DefaultPreviewInterval is the minimum gap between automatic preview refreshes
const DefaultPreviewInterval = 2 * time.Second

// clearScreen resets the terminal buffer before each frame
const clearScreen = "\x1b[2J\x1b[H"

type previewState struct {
	active   bool
	channel  int64
	lastPush time.Time // zero until the first successful push
}

// PreviewActive reports whether a terminal preview is open in the editor
func (b *Board) PreviewActive() bool {
	return b.preview.active
}

func (b *Board) enterPreview() {
	if b.editor == nil {
		return
	}
	if err := b.editor.NewScratch(); err != nil {
		b.logger.Debug("failed to create preview buffer", slog.Any("error", err))
		return
	}
	channel, err := b.editor.OpenTerminal()
	if err != nil {
		b.logger.Debug("failed to open preview terminal", slog.Any("error", err))
		return
	}
	b.preview = previewState{active: true, channel: channel}
	b.logger.Debug("entered preview", slog.Int64("channel", channel))
}

func (b *Board) leavePreview() {
	b.preview = previewState{}
}

// pushPreview sends the selected session's screen to the preview terminal
func (b *Board) pushPreview() {
	if !b.preview.active || b.monitor == nil {
		return
	}
	session, ok := b.CurrentSession()
	if !ok {
		return
	}

	content, err := b.monitor.Capture(session.PaneID)
	if err != nil {
		b.logger.Debug("failed to capture pane", slog.String("pane", session.PaneID), slog.Any("error", err))
		return
	}
	if err := b.editor.Send(b.preview.channel, clearScreen+content); err != nil {
		b.logger.Debug("failed to update preview", slog.Any("error", err))
		return
	}
	b.preview.lastPush = b.now()
}

// Tick refreshes the preview of a working session at most once per interval
func (b *Board) Tick() {
	if !b.preview.active {
		return
	}
	session, ok := b.CurrentSession()
	if !ok || session.Status != monitor.StatusWorking {
		return
	}
	if !b.preview.lastPush.IsZero() && b.now().Sub(b.preview.lastPush) < b.previewInterval {
		return
	}
	b.pushPreview()
}
