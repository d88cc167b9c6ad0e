package focus

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	focusdto "blockgarden/internal/modules/focus/dto"
	gardendto "blockgarden/internal/modules/garden/dto"
	"blockgarden/internal/ui/theme"
)

type SpeciesPort interface {
	Species(ctx context.Context, entityType string) ([]gardendto.SpeciesOutput, error)
}

type SpeciesLoadedMsg struct {
	Species []gardendto.SpeciesOutput
	Err     error
}

type speciesItem struct {
	species gardendto.SpeciesOutput
}

func (i speciesItem) Title() string       { return i.species.Label }
func (i speciesItem) Description() string { return strings.ToLower(i.species.Type) }
func (i speciesItem) FilterValue() string { return i.species.ID }

var stageGlyphs = [...]string{"·", "🌱", "🌿", "🌳"}

// Model renders the running session: species picker, growth bar, stage and
// the assistant's tip for the stage.
type Model struct {
	port       SpeciesPort
	species    list.Model
	bar        progress.Model
	spinner    spinner.Model
	snapshot   focusdto.SnapshotOutput
	tip        string
	tipLoading bool
	width      int
	height     int
}

func New(port SpeciesPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Grow"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	return Model{
		port:    port,
		species: l,
		bar:     progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green)), progress.WithoutPercentage()),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		species, err := m.port.Species(context.Background(), "")
		return SpeciesLoadedMsg{Species: species, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.species.SetSize(m.width/3, m.height)
		m.bar.Width = max(m.width-m.width/3-10, 10)

	case SpeciesLoadedMsg:
		if msg.Err != nil {
			m.species.Title = "Grow: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Species))
		for _, s := range msg.Species {
			if s.Selectable {
				items = append(items, speciesItem{species: s})
			}
		}
		cmds = append(cmds, m.species.SetItems(items))

	case spinner.TickMsg:
		if m.tipLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if m.snapshot.State != "running" {
		var cmd tea.Cmd
		m.species, cmd = m.species.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) SetSnapshot(s focusdto.SnapshotOutput) {
	m.snapshot = s
}

// LoadTip shows the spinner until SetTip is called.
func (m *Model) LoadTip() tea.Cmd {
	m.tipLoading = true
	return m.spinner.Tick
}

func (m *Model) SetTip(text string) {
	m.tipLoading = false
	m.tip = text
}

func (m Model) SelectedSpecies() (string, bool) {
	if item, ok := m.species.SelectedItem().(speciesItem); ok {
		return item.species.ID, true
	}
	return "", false
}

func (m Model) View() string {
	left := lipgloss.NewStyle().Width(m.width / 3).Height(m.height).Render(m.species.View())

	s := m.snapshot
	var sb strings.Builder
	entity := s.SelectedEntityID
	if entity == "" {
		entity = "nothing selected"
	}
	sb.WriteString(theme.Title.Render("Focus") + "  " + theme.Muted.Render(s.State) + "\n\n")
	sb.WriteString(theme.Muted.Render("growing: ") + entity + "\n")
	if s.HasBlock {
		sb.WriteString(theme.Muted.Render("block:   ") + fmt.Sprintf("%d", s.BlockID) + "\n")
	}
	glyph := "?"
	if s.Stage >= 0 && s.Stage < len(stageGlyphs) {
		glyph = stageGlyphs[s.Stage]
	}
	sb.WriteString(theme.Muted.Render("stage:   ") + glyph + " " + s.StageName + "\n\n")
	sb.WriteString(m.bar.ViewAs(s.Fraction) + "\n")
	sb.WriteString(theme.Hot.Render(Clock(s.SecondsRemaining)) + theme.Muted.Render(" / "+Clock(s.Duration)) + "\n\n")
	switch {
	case m.tipLoading:
		sb.WriteString(m.spinner.View() + theme.Muted.Render(" thinking…"))
	case m.tip != "":
		sb.WriteString(theme.Completed.Render("“" + m.tip + "”"))
	}
	sb.WriteString("\n\n" + theme.Muted.Render("enter: select  space: start/stop"))

	right := theme.Pane.Width(max(m.width-m.width/3-4, 10)).Render(sb.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Clock formats seconds as MM:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
