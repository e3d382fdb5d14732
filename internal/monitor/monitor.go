package monitor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

// DefaultPollInterval is how often tmux is polled for session changes
const DefaultPollInterval = time.Second

// DefaultAgentCommand is the pane command that marks a pane as an agent session
const DefaultAgentCommand = "claude"

// Monitor keeps a State current by polling tmux and exposes it to the board
type Monitor struct {
	State        *State
	Tmux         *Tmux
	Interval     time.Duration
	AgentCommand string
	Now          func() time.Time
	Logger       *slog.Logger
}

// New creates a monitor backed by the tmux binary
func New(agentCommand string, interval time.Duration, logger *slog.Logger) *Monitor {
	if agentCommand == "" {
		agentCommand = DefaultAgentCommand
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{
		State:        NewState(),
		Tmux:         NewTmux(),
		Interval:     interval,
		AgentCommand: agentCommand,
		Now:          time.Now,
		Logger:       logger.With(slog.String("component", "monitor")),
	}
}

// Run polls until the context is cancelled
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		if err := m.Poll(ctx); err != nil {
			m.Logger.Debug("poll failed", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll refreshes the session list once
func (m *Monitor) Poll(ctx context.Context) error {
	panes, err := m.Tmux.ListPanes(ctx)
	if err != nil {
		return err
	}

	var sessions []Session
	for _, pane := range panes {
		if !m.isAgent(pane) {
			continue
		}
		status := StatusIdle
		content, err := m.Tmux.Capture(ctx, pane.ID)
		if err != nil {
			m.Logger.Debug("capture failed", slog.String("pane", pane.ID), slog.Any("error", err))
		} else {
			status = Classify(content)
		}
		sessions = append(sessions, Session{
			PaneID:  pane.ID,
			Target:  pane.Target,
			Project: projectName(pane.Path),
			Cwd:     pane.Path,
			PID:     pane.PID,
			Status:  status,
		})
	}

	m.State.Update(sessions, m.now())
	return nil
}

// Sessions returns a snapshot of the monitored sessions
func (m *Monitor) Sessions() []Session {
	return m.State.Snapshot()
}

// Capture returns the current content of a pane for previewing
func (m *Monitor) Capture(paneID string) (string, error) {
	return m.Tmux.Capture(context.Background(), paneID)
}

// SwitchTo moves the tmux client to a pane
func (m *Monitor) SwitchTo(paneID string) error {
	return m.Tmux.SwitchTo(context.Background(), paneID)
}

func (m *Monitor) isAgent(p Pane) bool {
	return strings.EqualFold(p.Command, m.AgentCommand)
}

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
