package garden

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gardendto "blockgarden/internal/modules/garden/dto"
	"blockgarden/internal/ui/theme"
)

type GardenPort interface {
	Collection(ctx context.Context, entityType string) (gardendto.CollectionOutput, error)
	Stats(ctx context.Context) (gardendto.StatsOutput, error)
}

type LoadedMsg struct {
	Forest  gardendto.CollectionOutput
	Pasture gardendto.CollectionOutput
	Stats   gardendto.StatsOutput
	Err     error
}

// Model shows the forest and pasture galleries; left/right switches.
type Model struct {
	port    GardenPort
	loaded  LoadedMsg
	pasture bool
	width   int
	height  int
}

func New(port GardenPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loaded = msg
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "right", "l":
			m.pasture = !m.pasture
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loaded.Err != nil {
		return theme.Missed.Render("garden: " + m.loaded.Err.Error())
	}
	tabs := []string{"Forest", "Pasture"}
	active := 0
	collection := m.loaded.Forest
	if m.pasture {
		active = 1
		collection = m.loaded.Pasture
	}
	for i, t := range tabs {
		if i == active {
			tabs[i] = theme.Hot.Render(t)
		} else {
			tabs[i] = theme.Muted.Render(t)
		}
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs[0], theme.Muted.Render("  │  "), tabs[1]) + "\n\n")
	if collection.Total == 0 {
		sb.WriteString(theme.Muted.Render("Nothing harvested here yet.") + "\n")
	}
	for _, c := range collection.Counts {
		if c.Quantity == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-12s %s %d\n", c.Species.Label, theme.Completed.Render(strings.Repeat("▇", min(c.Quantity, 30))), c.Quantity))
	}
	s := m.loaded.Stats
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("total %d  plants %d  animals %d  today %d", s.Harvests, s.Plants, s.Animals, s.Today)))
	return theme.Pane.Width(max(m.width-4, 20)).Render(sb.String())
}

// Reload fetches both collections and the stats.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		forest, err := m.port.Collection(ctx, "plant")
		if err != nil {
			return LoadedMsg{Err: err}
		}
		pasture, err := m.port.Collection(ctx, "animal")
		if err != nil {
			return LoadedMsg{Err: err}
		}
		stats, err := m.port.Stats(ctx)
		return LoadedMsg{Forest: forest, Pasture: pasture, Stats: stats, Err: err}
	}
}
