package monitor

import (
	"sync"
	"time"
)

// Status is the activity classification of a monitored agent session
type Status int

const (
	StatusIdle Status = iota
	StatusWorking
	StatusWaitingForApproval
)

func (s Status) String() string {
	switch s {
	case StatusWorking:
		return "working"
	case StatusWaitingForApproval:
		return "waiting"
	default:
		return "idle"
	}
}

// Session is one tmux pane running an agent
type Session struct {
	PaneID  string
	Target  string // session:window.pane
	Project string
	Cwd     string
	PID     int
	Status  Status
	Since   time.Time // when Status last changed
}

// Elapsed returns how long the session has been in its current status
func (s Session) Elapsed(now time.Time) time.Duration {
	if s.Since.IsZero() {
		return 0
	}
	return now.Sub(s.Since)
}

// State is the shared session list written by the poller and read by the UI
type State struct {
	mu       sync.Mutex
	sessions []Session
}

// NewState creates an empty state
func NewState() *State {
	return &State{}
}

// Snapshot returns a copy of the current sessions
func (s *State) Snapshot() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Update replaces the session list. A pane whose status is unchanged keeps
// its Since timestamp, everything else starts counting at now.
func (s *State) Update(sessions []Session, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := make(map[string]Session, len(s.sessions))
	for _, old := range s.sessions {
		previous[old.PaneID] = old
	}

	next := make([]Session, len(sessions))
	for i, session := range sessions {
		if old, ok := previous[session.PaneID]; ok && old.Status == session.Status && !old.Since.IsZero() {
			session.Since = old.Since
		} else {
			session.Since = now
		}
		next[i] = session
	}

	s.sessions = next
}
