package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "studytrack/internal/modules/analytics/dto"
	"studytrack/internal/ui/theme"
)

const barWidth = 24

type Model struct {
	dashboard analyticsdto.DashboardOutput
	loaded    bool
	viewport  viewport.Model
	width     int
	height    int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(1, 2)
	return Model{viewport: vp}
}

func (m *Model) SetDashboard(d analyticsdto.DashboardOutput) {
	m.dashboard = d
	m.loaded = true
	m.viewport.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.viewport.Width = size.Width
		m.viewport.Height = size.Height
		m.viewport.SetContent(m.render())
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m Model) render() string {
	if !m.loaded {
		return theme.Muted.Render("Loading progress…")
	}
	d := m.dashboard
	var sb strings.Builder

	sb.WriteString(theme.Title.Render("Overview") + "\n")
	fmt.Fprintf(&sb, "%d sessions  %.1f hours  avg %.0f min\n",
		d.Stats.TotalSessions, d.Stats.TotalHours, d.Stats.AverageSessionLength)
	streak := fmt.Sprintf("streak %d days (best %d, %d study days)", d.Streak.Current, d.Streak.Longest, d.Streak.TotalStudyDays)
	if d.Streak.Current > 0 {
		sb.WriteString(theme.Hot.Render("🔥 "+streak) + "\n\n")
	} else {
		sb.WriteString(theme.Muted.Render(streak) + "\n\n")
	}

	sb.WriteString(theme.Title.Render("Goals") + "\n")
	fmt.Fprintf(&sb, "today  %s %3d%%  %d/%d min\n", theme.Bar(d.Goals.DailyPercent, barWidth), d.Goals.DailyPercent, d.Goals.TodayMinutes, d.Goals.DailyGoal)
	fmt.Fprintf(&sb, "week   %s %3d%%  %d/%d min\n", theme.Bar(d.Goals.WeeklyPercent, barWidth), d.Goals.WeeklyPercent, d.Goals.WeekMinutes, d.Goals.WeeklyGoal)
	if next := d.Goals.NextMilestone; next != nil {
		fmt.Fprintf(&sb, "%s in %d sessions\n", next.Title, d.Goals.SessionsToNext)
	}
	if len(d.Goals.Achieved) > 0 {
		sb.WriteString(theme.Good.Render("achieved: "+strings.Join(d.Goals.Achieved, ", ")) + "\n")
	}
	sb.WriteString("\n")

	if len(d.Stats.Subjects) > 0 {
		sb.WriteString(theme.Title.Render("Subjects") + "\n")
		for _, s := range d.Stats.Subjects {
			pct := 0
			if d.Stats.TotalMinutes > 0 {
				pct = s.Minutes * 100 / d.Stats.TotalMinutes
			}
			fmt.Fprintf(&sb, "%-22s %s %4d min\n", s.Subject, theme.Bar(pct, barWidth), s.Minutes)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(theme.Title.Render("Weekly") + "\n")
	peak := 0
	for _, w := range d.Weekly {
		peak = max(peak, w.TotalMinutes)
	}
	for _, w := range d.Weekly {
		pct := 0
		if peak > 0 {
			pct = w.TotalMinutes * 100 / peak
		}
		fmt.Fprintf(&sb, "%s %s %5.1fh  %d sessions\n", w.WeekStart, theme.Bar(pct, barWidth), w.Hours, w.Sessions)
	}
	return sb.String()
}
