package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// ShimmerConfig holds configuration for the highlight sweep drawn over
// the label of a working session
type ShimmerConfig struct {
	Enabled    bool
	CycleMs    int     // time for one sweep across the text
	PauseMs    int     // pause between sweeps
	WidthRatio float64 // highlight width relative to text length
}

// DefaultShimmerConfig returns default shimmer configuration
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Enabled:    true,
		CycleMs:    1800,
		PauseMs:    500,
		WidthRatio: 0.25,
	}
}

// ShimmerState tracks the sweep phase. It is advanced by the board tick and
// has no timer of its own.
type ShimmerState struct {
	Config    ShimmerConfig
	TrueColor bool
	started   time.Time
	phase     float64 // 0..1 across the sweep, <0 while paused
}

// NewShimmerState creates a new shimmer state
func NewShimmerState(config ShimmerConfig, now time.Time) *ShimmerState {
	return &ShimmerState{
		Config:    config,
		TrueColor: os.Getenv("COLORTERM") == "truecolor",
		started:   now,
	}
}

// Advance moves the sweep to the position for the given time
func (s *ShimmerState) Advance(now time.Time) {
	if !s.Config.Enabled || s.Config.CycleMs <= 0 {
		return
	}
	period := s.Config.CycleMs + s.Config.PauseMs
	elapsed := int(now.Sub(s.started).Milliseconds()) % period
	if elapsed >= s.Config.CycleMs {
		s.phase = -1
		return
	}
	s.phase = float64(elapsed) / float64(s.Config.CycleMs)
}

// Render draws text with the highlight at the current phase
func (s *ShimmerState) Render(text string) string {
	runes := []rune(text)
	if len(runes) == 0 || !s.Config.Enabled {
		return text
	}

	// the sweep starts before the first glyph and ends after the last one
	margin := float64(len(runes)) * s.Config.WidthRatio
	center := -margin + s.phase*(float64(len(runes))+2*margin)
	if s.phase < 0 {
		center = math.Inf(1)
	}

	sigma := math.Max(1, margin/2)
	var b strings.Builder
	for i, r := range runes {
		dx := float64(i) - center
		weight := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		b.WriteString(s.colorize(r, weight))
	}
	b.WriteString("\033[0m")
	return b.String()
}

func (s *ShimmerState) colorize(r rune, weight float64) string {
	if !s.TrueColor {
		if weight > 0.5 {
			return fmt.Sprintf("\033[38;5;157m%c", r)
		}
		return fmt.Sprintf("\033[38;5;71m%c", r)
	}
	// blend from the working green towards a pale highlight
	baseR, baseG, baseB := 34, 197, 94
	hiR, hiG, hiB := 220, 252, 231
	blend := func(a, b int) int { return int(float64(a)*(1-weight) + float64(b)*weight) }
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%c", blend(baseR, hiR), blend(baseG, hiG), blend(baseB, hiB), r)
}
