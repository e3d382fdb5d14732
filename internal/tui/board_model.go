package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/torudo-dev/torudo/internal/board"
	"github.com/torudo-dev/torudo/internal/config"
	"github.com/torudo-dev/torudo/internal/watcher"
)

// DefaultTickInterval is how often file events are drained and the preview refreshed
const DefaultTickInterval = 100 * time.Millisecond

// EventSource yields file events collected since the last call
type EventSource interface {
	Drain() []fsnotify.Event
}

// Options wires the board model to the rest of the application.
// Events and Reconciler are optional; without them the file is only
// reloaded on request.
type Options struct {
	Board        *board.Board
	Events       EventSource
	Reconciler   *watcher.Reconciler
	Keys         config.Keymap
	TickInterval time.Duration
	Title        string
	Now          func() time.Time
}

// BoardModel is the bubbletea model for the record grid
type BoardModel struct {
	width  int
	height int

	board      *board.Board
	events     EventSource
	reconciler *watcher.Reconciler

	keys  KeyMap
	help  help.Model
	title string

	tickInterval time.Duration
	now          func() time.Time

	// Shimmer effect for working sessions
	shimmer *ShimmerState
}

type tickMsg time.Time

// NewBoardModel creates the board model
func NewBoardModel(opts Options) BoardModel {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	h := help.New()
	h.ShortSeparator = "  "

	return BoardModel{
		board:        opts.Board,
		events:       opts.Events,
		reconciler:   opts.Reconciler,
		keys:         NewKeyMap(opts.Keys),
		help:         h,
		title:        opts.Title,
		tickInterval: interval,
		now:          now,
		shimmer:      NewShimmerState(DefaultShimmerConfig(), now()),
	}
}

// Init starts the tick loop
func (m BoardModel) Init() tea.Cmd {
	return m.tick()
}

func (m BoardModel) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.poll()
		m.shimmer.Advance(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// poll applies pending file changes, then lets the preview refresh
func (m BoardModel) poll() {
	if m.events != nil && m.reconciler != nil {
		m.reconciler.Process(m.events.Drain(), m.board.Reload)
	}
	m.board.Tick()
}

func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.board.Up()
	case key.Matches(msg, m.keys.Down):
		m.board.Down()
	case key.Matches(msg, m.keys.Left):
		m.board.Left()
	case key.Matches(msg, m.keys.Right):
		m.board.Right()
	case key.Matches(msg, m.keys.Complete):
		m.board.Complete()
	case key.Matches(msg, m.keys.Reload):
		m.board.Reload()
	case key.Matches(msg, m.keys.SwitchPane):
		m.board.SwitchPane()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}
