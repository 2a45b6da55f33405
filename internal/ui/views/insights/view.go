package insights

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	analyticsdto "studytrack/internal/modules/analytics/dto"
	"studytrack/internal/ui/theme"
)

type insightItem struct {
	insight analyticsdto.InsightOutput
	tip     bool
}

func (i insightItem) Title() string {
	label := i.insight.Title
	if i.tip {
		label = "→ " + label
	}
	return theme.Insight(i.insight.Type).Render(label)
}

func (i insightItem) Description() string {
	if i.insight.Action != "" {
		return i.insight.Description + " " + i.insight.Action
	}
	return i.insight.Description
}

func (i insightItem) FilterValue() string { return i.insight.Title }

type Model struct {
	list list.Model
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Peach)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.BorderForeground(theme.Peach)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Insights & recommendations"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return Model{list: l}
}

// SetInsights shows insights followed by recommendations.
func (m *Model) SetInsights(insights, recommendations []analyticsdto.InsightOutput) tea.Cmd {
	items := make([]list.Item, 0, len(insights)+len(recommendations))
	for _, in := range insights {
		items = append(items, insightItem{insight: in})
	}
	for _, rec := range recommendations {
		items = append(items, insightItem{insight: rec, tip: true})
	}
	return m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(size.Width, size.Height)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return theme.Muted.Render("  Log a session to get personalised insights.")
	}
	return m.list.View()
}
