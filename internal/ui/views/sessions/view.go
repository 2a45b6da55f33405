package sessions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "studytrack/internal/modules/session/dto"
	"studytrack/internal/ui/theme"
)

type sessionItem struct {
	session sessiondto.SessionRecord
}

func (i sessionItem) Title() string { return i.session.Subject }
func (i sessionItem) Description() string {
	desc := fmt.Sprintf("%s  %d min", i.session.Date.Format("Mon 02 Jan 15:04"), i.session.Duration)
	if i.session.Score != nil {
		desc += fmt.Sprintf("  score %d", *i.session.Score)
	}
	return desc
}
func (i sessionItem) FilterValue() string { return i.session.Subject + " " + i.session.Topic }

type Model struct {
	list   list.Model
	detail viewport.Model
	width  int
	height int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{list: l, detail: vp}
}

// SetSessions replaces the list contents, newest first.
func (m *Model) SetSessions(sessions []sessiondto.SessionRecord) tea.Cmd {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionItem{session: s}
	}
	cmd := m.list.SetItems(items)
	m.detail.SetContent(m.renderDetail())
	return cmd
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.resize()
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.detail.SetContent(m.renderDetail())
	m.detail, cmd = m.detail.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 45 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Panel.Width(max(detailW-2, 1)).Height(max(m.height-2, 1)).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list filter owns the keyboard.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 45 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = max(detailW-4, 1)
	m.detail.Height = max(m.height-4, 1)
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("No sessions yet. Press 1, 2 or 3 to log a quick session.")
	}
	s := item.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Subject) + "\n\n")
	fmt.Fprintf(&sb, "date      %s\n", s.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "duration  %d min\n", s.Duration)
	if s.Score != nil {
		fmt.Fprintf(&sb, "score     %d\n", *s.Score)
	}
	if s.Topic != "" {
		fmt.Fprintf(&sb, "topic     %s\n", s.Topic)
	}
	if s.Difficulty != "" {
		fmt.Fprintf(&sb, "level     %s\n", s.Difficulty)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(&sb, "tags      %s\n", strings.Join(s.Tags, ", "))
	}
	fmt.Fprintf(&sb, "source    %s\n", s.Source)
	if s.Notes != "" {
		sb.WriteString("\n" + s.Notes + "\n")
	}
	return sb.String()
}
