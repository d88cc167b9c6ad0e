package timeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scheduledto "blockgarden/internal/modules/schedule/dto"
	"blockgarden/internal/ui/theme"
)

type SchedulePort interface {
	Load(ctx context.Context) (scheduledto.DayOutput, error)
}

// DayLoadedMsg replaces the rendered day. The root model also sends it
// after any update that returns a fresh day.
type DayLoadedMsg struct {
	Day scheduledto.DayOutput
	Err error
}

type blockItem struct {
	block scheduledto.BlockOutput
}

func (i blockItem) Title() string {
	activity := i.block.Activity
	if strings.TrimSpace(activity) == "" {
		activity = "—"
	}
	return fmt.Sprintf("%s–%s  %s", i.block.StartTime, i.block.EndTime, activity)
}

func (i blockItem) Description() string {
	parts := []string{theme.StatusMark(i.block.Status) + " " + i.block.Status}
	if i.block.FocusScore != nil {
		parts = append(parts, theme.Score.Render(fmt.Sprintf("%d", *i.block.FocusScore)))
	}
	if i.block.IsCurrent {
		parts = append(parts, theme.Hot.Render("now"))
	}
	return strings.Join(parts, "  ")
}

func (i blockItem) FilterValue() string { return i.block.Activity }

type Model struct {
	port    SchedulePort
	list    list.Model
	day     scheduledto.DayOutput
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port SchedulePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Today"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), m.height)

	case DayLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		cmds = append(cmds, m.setDay(msg.Day))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setDay(day scheduledto.DayOutput) tea.Cmd {
	prev := m.list.Index()
	first := len(m.day.Blocks) == 0
	m.day = day
	items := make([]list.Item, len(day.Blocks))
	selected := -1
	for i, b := range day.Blocks {
		items[i] = blockItem{block: b}
		if b.Selected {
			selected = i
		}
	}
	cmd := m.list.SetItems(items)
	switch {
	case selected >= 0:
		m.list.Select(selected)
	case first && day.CurrentIndex >= 0 && day.CurrentIndex < len(items):
		m.list.Select(day.CurrentIndex)
	default:
		m.list.Select(prev)
	}
	return cmd
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading blocks…")
	}
	if m.err != nil {
		return theme.Missed.Render("blocks: " + m.err.Error())
	}
	listPane := lipgloss.NewStyle().Width(m.listWidth()).Height(m.height).Render(m.list.View())
	detail := theme.Pane.Width(max(m.width-m.listWidth()-4, 10)).Height(max(m.height-2, 1)).Render(m.renderDetail())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detail)
}

// SelectedBlockID is the block under the cursor.
func (m Model) SelectedBlockID() (int, bool) {
	if item, ok := m.list.SelectedItem().(blockItem); ok {
		return item.block.ID, true
	}
	return 0, false
}

// Snippets returns the non-empty activities of the day in block order.
func (m Model) Snippets() []string {
	out := make([]string, 0, len(m.day.Blocks))
	for _, b := range m.day.Blocks {
		if strings.TrimSpace(b.Activity) != "" {
			out = append(out, b.Activity)
		}
	}
	return out
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) listWidth() int {
	return m.width * 6 / 10
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(blockItem)
	if !ok {
		return theme.Muted.Render("No block selected")
	}
	b := item.block
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Block %d", b.ID)) + "\n\n")
	sb.WriteString(theme.Muted.Render("time:     ") + b.StartTime + "–" + b.EndTime + "\n")
	sb.WriteString(theme.Muted.Render("status:   ") + theme.StatusMark(b.Status) + " " + b.Status + "\n")
	if b.FocusScore != nil {
		sb.WriteString(theme.Muted.Render("score:    ") + fmt.Sprintf("%d", *b.FocusScore) + "\n")
	}
	if b.Activity != "" {
		sb.WriteString(theme.Muted.Render("activity: ") + b.Activity + "\n")
	}
	sb.WriteString(theme.Muted.Render("grid:     ") + m.day.Grid + "\n")
	sb.WriteString("\n" + theme.Muted.Render("enter: focus on this block  :activity  :status"))
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		day, err := m.port.Load(context.Background())
		return DayLoadedMsg{Day: day, Err: err}
	}
}
