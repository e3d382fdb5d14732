package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/torudo-dev/torudo/internal/models"
	"github.com/torudo-dev/torudo/internal/monitor"
)

const (
	minColumnWidth = 24
	cardHeight     = 4 // two content lines plus border
	sessionsTitle  = "Sessions"
	planMarker     = "[plan]"
)

// View renders the board
func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderHelpBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < cardHeight+1 {
		bodyHeight = cardHeight + 1
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderColumns(bodyHeight), footer)
}

func (m BoardModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render(m.title)

	open := 0
	for _, r := range m.board.Records() {
		if !r.Completed {
			open++
		}
	}
	count := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf("  %d open", open))

	return ansi.Truncate(title+count, m.width, "…")
}

// visibleRange picks a window of columns that keeps the selection on screen
func visibleRange(total, selected, fit int) (int, int) {
	if fit >= total {
		return 0, total
	}
	start := selected - fit/2
	if start < 0 {
		start = 0
	}
	if start+fit > total {
		start = total - fit
	}
	return start, start + fit
}

func (m BoardModel) renderColumns(height int) string {
	total := m.board.TotalColumns()
	if total == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color(ColorDisabledText)).
			Render("No records")
	}

	fit := m.width / minColumnWidth
	if fit < 1 {
		fit = 1
	}
	start, end := visibleRange(total, m.board.Column(), fit)
	width := m.width / (end - start)

	projects := m.board.Columns()
	var columns []string
	for i := start; i < end; i++ {
		active := i == m.board.Column()
		if i < len(projects) {
			columns = append(columns, m.renderProjectColumn(projects[i], m.board.ColumnRecords(i), active, width, height))
		} else {
			columns = append(columns, m.renderSessionColumn(active, width, height))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func columnHeader(name string, count int, active bool, width int) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Width(width).
		Padding(0, 1).
		Foreground(lipgloss.Color(ColorAccentBright))
	if active {
		style = style.
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorAccentMain))
	}
	label := fmt.Sprintf("%s (%d)", name, count)
	return style.Render(ansi.Truncate(label, width-2, "…"))
}

func (m BoardModel) renderProjectColumn(name string, records []models.Record, active bool, width, height int) string {
	header := columnHeader(name, len(records), active, width)

	selected := -1
	if active {
		selected = m.board.Row()
	}
	fit := (height - 1) / cardHeight
	if fit < 1 {
		fit = 1
	}
	start, end := visibleRange(len(records), max(selected, 0), fit)

	cards := []string{header}
	for i := start; i < end; i++ {
		cards = append(cards, renderRecordCard(records[i], m.board.HasPlan(records[i].ID), i == selected, width))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(lipgloss.JoinVertical(lipgloss.Left, cards...))
}

func cardStyle(selected bool, width int) lipgloss.Style {
	border := ColorBorder
	if selected {
		border = ColorAccentMain
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(width-2).
		Padding(0, 1)
}

func priorityColor(p rune) string {
	switch p {
	case 'A':
		return ColorPriorityA
	case 'B':
		return ColorPriorityB
	case 'C':
		return ColorPriorityC
	default:
		return ColorSecondaryText
	}
}

func renderRecordCard(r models.Record, hasPlan, selected bool, width int) string {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	var title string
	if r.HasPriority() {
		title = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(priorityColor(r.Priority))).
			Render("("+r.PriorityLabel()+")") + " "
	}
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if selected {
		descStyle = descStyle.Bold(true)
	}
	title += descStyle.Render(r.Description)

	var meta []string
	for _, c := range r.Contexts {
		meta = append(meta, "@"+c)
	}
	if r.ID == "" {
		meta = append(meta, "no id")
	} else if hasPlan {
		meta = append(meta, planMarker)
	}
	detail := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDisabledText)).
		Render(strings.Join(meta, " "))

	body := ansi.Truncate(title, inner, "…") + "\n" + ansi.Truncate(detail, inner, "…")
	return cardStyle(selected, width).Render(body)
}

func (m BoardModel) renderSessionColumn(active bool, width, height int) string {
	sessions := m.board.Sessions()
	header := columnHeader(sessionsTitle, len(sessions), active, width)

	if len(sessions) == 0 {
		empty := lipgloss.NewStyle().
			Padding(1, 1).
			Foreground(lipgloss.Color(ColorDisabledText)).
			Render("no agent sessions")
		return lipgloss.NewStyle().Width(width).Height(height).Render(header + "\n" + empty)
	}

	selected := -1
	if active {
		selected = m.board.SessionRow()
	}
	fit := (height - 1) / cardHeight
	if fit < 1 {
		fit = 1
	}
	start, end := visibleRange(len(sessions), max(selected, 0), fit)

	now := m.now()
	cards := []string{header}
	for i := start; i < end; i++ {
		cards = append(cards, m.renderSessionCard(sessions[i], i == selected, width, now))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(lipgloss.JoinVertical(lipgloss.Left, cards...))
}

func statusColor(s monitor.Status) string {
	switch s {
	case monitor.StatusWorking:
		return ColorWorking
	case monitor.StatusWaitingForApproval:
		return ColorWaiting
	default:
		return ColorIdle
	}
}

func (m BoardModel) renderSessionCard(s monitor.Session, selected bool, width int, now time.Time) string {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	label := "● " + s.Status.String()
	if s.Status == monitor.StatusWorking {
		label = m.shimmer.Render(label)
	} else {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor(s.Status))).Render(label)
	}
	elapsed := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(" " + formatElapsed(s.Elapsed(now)))

	project := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Render(s.Project)
	target := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render(" " + s.Target)

	body := ansi.Truncate(label+elapsed, inner, "…") + "\n" + ansi.Truncate(project+target, inner, "…")
	return cardStyle(selected, width).Render(body)
}

// formatElapsed renders a duration as 45s, 3m12s or 2h05m
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func (m BoardModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Width(m.width).
		Align(lipgloss.Center).
		Render(m.help.View(m.keys))
}
