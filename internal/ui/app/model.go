package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "studytrack/internal/modules/analytics/dto"
	sessiondto "studytrack/internal/modules/session/dto"
	settingsdto "studytrack/internal/modules/settings/dto"
	"studytrack/internal/ui/components"
	"studytrack/internal/ui/theme"
	insightsview "studytrack/internal/ui/views/insights"
	progressview "studytrack/internal/ui/views/progress"
	sessionsview "studytrack/internal/ui/views/sessions"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Add(ctx context.Context, input sessiondto.AddSessionInput) (sessiondto.SessionRecord, error)
	Quick(ctx context.Context, preset string) (sessiondto.SessionRecord, error)
	Presets() []sessiondto.QuickPreset
	List(ctx context.Context, limit int) ([]sessiondto.SessionRecord, error)
	Sync(ctx context.Context) (sessiondto.SyncOutput, error)
}

type analyticsPort interface {
	Dashboard(ctx context.Context) (analyticsdto.DashboardOutput, error)
}

type settingsPort interface {
	Set(ctx context.Context, key, value string) (settingsdto.Settings, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSessions tabID = iota
	tabProgress
	tabInsights
	tabCount
)

var tabLabels = [tabCount]string{"Sessions", "Progress", "Insights"}

// ─── async messages ───────────────────────────────────────────────────────────

type loadedMsg struct {
	sessions  []sessiondto.SessionRecord
	dashboard analyticsdto.DashboardOutput
	err       error
}

type addedMsg struct {
	session sessiondto.SessionRecord
	err     error
}

type syncedMsg struct {
	out sessiondto.SyncOutput
	err error
}

type settingMsg struct {
	key string
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Quick   key.Binding
	Refresh key.Binding
	Sync    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Quick:   key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "quick add")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Sync:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "sync backends")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quick, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Quick, k.Refresh, k.Sync},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; sub-views only render what it hands them.
type Model struct {
	session   sessionPort
	analytics analyticsPort
	settings  settingsPort
	presets   []sessiondto.QuickPreset

	sessionsView sessionsview.Model
	progressView progressview.Model
	insightsView insightsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	streak    int
	status    string
	width     int
	height    int
}

func NewModel(session sessionPort, analytics analyticsPort, settings settingsPort) Model {
	return Model{
		session:      session,
		analytics:    analytics,
		settings:     settings,
		presets:      session.Presets(),
		sessionsView: sessionsview.New(),
		progressView: progressview.New(),
		insightsView: insightsview.New(),
		activeTab:    tabSessions,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "loading…",
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case loadedMsg:
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
			return m, nil
		}
		cmds = append(cmds, m.sessionsView.SetSessions(msg.sessions))
		m.progressView.SetDashboard(msg.dashboard)
		cmds = append(cmds, m.insightsView.SetInsights(msg.dashboard.Insights, msg.dashboard.Recommendations))
		m.streak = msg.dashboard.Streak.Current
		m.status = fmt.Sprintf("%d sessions", len(msg.sessions))
		return m, tea.Batch(cmds...)

	case addedMsg:
		if msg.err != nil {
			m.status = "add failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("logged %s %d min", msg.session.Subject, msg.session.Duration)
		return m, m.loadCmd()

	case syncedMsg:
		if msg.err != nil {
			m.status = "sync failed: " + msg.err.Error()
			return m, nil
		}
		m.status = syncStatus(msg.out)
		return m, m.loadCmd()

	case settingMsg:
		if msg.err != nil {
			m.status = "setting failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.key + " updated"
		return m, m.loadCmd()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabSessions && m.sessionsView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			return m, m.palette.Open()
		case "r":
			m.status = "refreshing…"
			return m, m.loadCmd()
		case "y":
			m.status = "syncing…"
			return m, m.syncCmd()
		case "1", "2", "3":
			i := int(msg.String()[0] - '1')
			if i < len(m.presets) {
				return m, m.quickCmd(m.presets[i].Key)
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	case tabProgress:
		m.progressView, tabCmd = m.progressView.Update(msg)
	case tabInsights:
		m.insightsView, tabCmd = m.insightsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

func syncStatus(out sessiondto.SyncOutput) string {
	status := fmt.Sprintf("synced %d sessions", out.Sessions)
	if !out.Changed {
		status += ", already in step"
	}
	if len(out.Stale) > 0 {
		status += ", stale: " + strings.Join(out.Stale, ",")
	}
	if len(out.Unavailable) > 0 {
		status += ", unavailable: " + strings.Join(out.Unavailable, ",")
	}
	return status
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSessions:
		return m.sessionsView.View()
	case tabProgress:
		return m.progressView.View()
	case tabInsights:
		return m.insightsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "studytrack  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.streak > 0 {
		left = theme.Hot.Render(fmt.Sprintf("🔥 %d", m.streak)) + "  " + left
	}
	right := theme.Muted.Render("?:help  1-3:quick  y:sync  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

var subjectAliases = map[string]string{
	"quant":  "Quantitative",
	"verbal": "Verbal",
	"ir":     "Integrated Reasoning",
	"awa":    "Analytical Writing",
	"test":   "Full Practice Test",
	"review": "Review",
	"errors": "Error Log",
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "add":
		if len(parts) < 2 {
			m.status = "usage: add <subject> [minutes] [score]"
			return m, nil
		}
		in := sessiondto.AddSessionInput{Subject: parts[1]}
		if full, ok := subjectAliases[strings.ToLower(parts[1])]; ok {
			in.Subject = full
		}
		if len(parts) >= 3 {
			n, err := strconv.Atoi(parts[2])
			if err != nil {
				m.status = "minutes must be a number"
				return m, nil
			}
			in.Duration = n
		}
		if len(parts) >= 4 {
			n, err := strconv.Atoi(parts[3])
			if err != nil {
				m.status = "score must be a number"
				return m, nil
			}
			in.Score = &n
		}
		return m, m.addCmd(in)

	case "quick":
		if len(parts) < 2 {
			m.status = "usage: quick <quant|verbal|ir>"
			return m, nil
		}
		return m, m.quickCmd(parts[1])

	case "sync":
		return m, m.syncCmd()

	case "refresh":
		return m, m.loadCmd()

	case "set":
		if len(parts) < 3 {
			m.status = "usage: set <key> <value>"
			return m, nil
		}
		return m, m.settingCmd(parts[1], strings.Join(parts[2:], " "))

	case "goal:daily", "goal:weekly":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <minutes>"
			return m, nil
		}
		key := "dailyGoal"
		if parts[0] == "goal:weekly" {
			key = "weeklyGoal"
		}
		return m, m.settingCmd(key, parts[1])

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.progressView, _ = m.progressView.Update(sz)
	m.insightsView, _ = m.insightsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		sessions, err := m.session.List(ctx, 0)
		if err != nil {
			return loadedMsg{err: err}
		}
		dashboard, err := m.analytics.Dashboard(ctx)
		return loadedMsg{sessions: sessions, dashboard: dashboard, err: err}
	}
}

func (m Model) addCmd(in sessiondto.AddSessionInput) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.session.Add(context.Background(), in)
		return addedMsg{session: rec, err: err}
	}
}

func (m Model) quickCmd(preset string) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.session.Quick(context.Background(), preset)
		return addedMsg{session: rec, err: err}
	}
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Sync(context.Background())
		return syncedMsg{out: out, err: err}
	}
}

func (m Model) settingCmd(key, value string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.settings.Set(context.Background(), key, value)
		return settingMsg{key: key, err: err}
	}
}
