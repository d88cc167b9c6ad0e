package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	assistantdto "blockgarden/internal/modules/assistant/dto"
	focusdto "blockgarden/internal/modules/focus/dto"
	gardendto "blockgarden/internal/modules/garden/dto"
	scheduledto "blockgarden/internal/modules/schedule/dto"
	"blockgarden/internal/ui/components"
	"blockgarden/internal/ui/theme"
	focusview "blockgarden/internal/ui/views/focus"
	gardenview "blockgarden/internal/ui/views/garden"
	timelineview "blockgarden/internal/ui/views/timeline"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type SchedulePort interface {
	Load(ctx context.Context) (scheduledto.DayOutput, error)
	Current(ctx context.Context) (scheduledto.BlockOutput, bool, error)
	SetActivity(ctx context.Context, id int, activity string) (scheduledto.UpdateBlockOutput, error)
	SetStatus(ctx context.Context, id int, status string) (scheduledto.UpdateBlockOutput, error)
	Regenerate(ctx context.Context) (scheduledto.DayOutput, error)
}

type FocusPort interface {
	SelectEntity(ctx context.Context, entityID string) (focusdto.SnapshotOutput, error)
	SelectBlock(ctx context.Context, blockID int) (focusdto.SnapshotOutput, error)
	Start(ctx context.Context) (focusdto.SnapshotOutput, error)
	Stop(ctx context.Context) (focusdto.TransitionOutput, error)
	Toggle(ctx context.Context) (focusdto.TransitionOutput, error)
	Snapshot(ctx context.Context) (focusdto.SnapshotOutput, error)
	Subscribe(buffer int) (<-chan focusdto.EventOutput, func())
}

type GardenPort interface {
	Collection(ctx context.Context, entityType string) (gardendto.CollectionOutput, error)
	Stats(ctx context.Context) (gardendto.StatsOutput, error)
	Species(ctx context.Context, entityType string) ([]gardendto.SpeciesOutput, error)
}

type AssistantPort interface {
	Summarize(ctx context.Context, snippets []string) assistantdto.TextOutput
	FocusTip(ctx context.Context, stage int, stageName string) assistantdto.TextOutput
}

// ─── tabs ────────────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimeline tabID = iota
	tabFocus
	tabGarden
	tabCount
)

var tabLabels = [tabCount]string{"Timeline", "Focus", "Garden"}

// ─── messages ────────────────────────────────────────────────────────────────

type focusEventMsg struct {
	event focusdto.EventOutput
	ok    bool
}

type snapshotMsg struct {
	snapshot focusdto.SnapshotOutput
	err      error
}

type transitionMsg struct {
	out focusdto.TransitionOutput
	err error
}

type tipMsg struct {
	stage int
	text  assistantdto.TextOutput
}

type summaryMsg struct {
	text    assistantdto.TextOutput
	blockID int
	day     scheduledto.DayOutput
	applied bool
	err     error
}

type updatedMsg struct {
	out scheduledto.UpdateBlockOutput
	err error
}

// ─── keys ────────────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Toggle  key.Binding
	Garden  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select block/species")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop focus")),
		Garden:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "forest/pasture")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Toggle, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Toggle},
		{k.Garden},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Focus events arrive on a subscription
// channel and are pulled one at a time by waitEventCmd.
type Model struct {
	schedule  SchedulePort
	focus     FocusPort
	assistant AssistantPort

	events      <-chan focusdto.EventOutput
	unsubscribe func()

	timeline timelineview.Model
	focusV   focusview.Model
	garden   gardenview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	snapshot  focusdto.SnapshotOutput
	lastStage int
	status    string
	width     int
	height    int
}

func NewModel(schedule SchedulePort, focus FocusPort, garden GardenPort, assistant AssistantPort) Model {
	events, unsubscribe := focus.Subscribe(16)
	return Model{
		schedule:    schedule,
		focus:       focus,
		assistant:   assistant,
		events:      events,
		unsubscribe: unsubscribe,
		timeline:    timelineview.New(schedule),
		focusV:      focusview.New(garden),
		garden:      gardenview.New(garden),
		activeTab:   tabTimeline,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		lastStage:   -1,
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timeline.Init(),
		m.focusV.Init(),
		m.garden.Init(),
		m.snapshotCmd(),
		m.waitEventCmd(),
	)
}

// Unsubscribe stops the focus event subscription.
func (m Model) Unsubscribe() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

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
		return m, nil

	case focusEventMsg:
		if !msg.ok {
			m.status = "focus controller closed"
			return m, nil
		}
		cmds = append(cmds, m.waitEventCmd(), m.applyEvent(msg.event))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		if msg.err != nil {
			m.status = "focus: " + msg.err.Error()
			return m, nil
		}
		return m, m.setSnapshot(msg.snapshot)

	case transitionMsg:
		if msg.err != nil {
			m.status = "focus: " + msg.err.Error()
			return m, nil
		}
		if msg.out.Harvest == nil && msg.out.Snapshot.State == "running" {
			m.status = "focus started"
		}
		return m, m.setSnapshot(msg.out.Snapshot)

	case tipMsg:
		if msg.stage == m.snapshot.Stage {
			m.focusV.SetTip(msg.text.Text)
		}
		return m, nil

	case summaryMsg:
		switch {
		case msg.err != nil:
			m.status = "summary: " + msg.err.Error()
		case msg.text.Fallback:
			m.status = "summary: " + msg.text.Text
		case !msg.applied:
			m.status = "summary ready, no current block"
		default:
			m.status = fmt.Sprintf("summary written to block %d", msg.blockID)
			return m, m.forward(timelineview.DayLoadedMsg{Day: msg.day})
		}
		return m, nil

	case updatedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if !msg.out.Applied {
			m.status = "no such block"
			return m, nil
		}
		m.status = "block updated"
		return m, m.forward(timelineview.DayLoadedMsg{Day: msg.out.Day})

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case timelineview.DayLoadedMsg, gardenview.LoadedMsg, focusview.SpeciesLoadedMsg:
		return m, m.forward(msg)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabTimeline && m.timeline.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case " ":
			return m, m.toggleCmd()
		case "enter":
			switch m.activeTab {
			case tabTimeline:
				if id, ok := m.timeline.SelectedBlockID(); ok {
					m.activeTab = tabFocus
					return m, m.selectBlockCmd(id)
				}
			case tabFocus:
				if id, ok := m.focusV.SelectedSpecies(); ok {
					return m, m.selectEntityCmd(id)
				}
			}
			return m, nil
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimeline:
		m.timeline, tabCmd = m.timeline.Update(msg)
	case tabFocus:
		m.focusV, tabCmd = m.focusV.Update(msg)
	case tabGarden:
		m.garden, tabCmd = m.garden.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// forward routes a data message to the view that owns it regardless of the
// active tab.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.(type) {
	case timelineview.DayLoadedMsg:
		m.timeline, cmd = m.timeline.Update(msg)
	case gardenview.LoadedMsg:
		m.garden, cmd = m.garden.Update(msg)
	case focusview.SpeciesLoadedMsg:
		m.focusV, cmd = m.focusV.Update(msg)
	}
	return cmd
}

func (m *Model) applyEvent(ev focusdto.EventOutput) tea.Cmd {
	switch ev.Kind {
	case "tick":
		s := m.snapshot
		s.SecondsRemaining = ev.Remaining
		if s.Duration > 0 {
			s.Fraction = float64(s.Duration-ev.Remaining) / float64(s.Duration)
		}
		if ev.Stage != s.Stage {
			s.Stage = ev.Stage
			s.StageName = ""
		}
		return m.setSnapshot(s)
	case "harvested":
		if h := ev.Harvest; h != nil {
			m.status = fmt.Sprintf("harvested %s (%s)", h.EntityID, strings.ToLower(h.EntityType))
			if h.BlockMarked {
				m.status += fmt.Sprintf(", block %d completed", h.BlockID)
			}
		}
		return tea.Batch(m.timeline.Init(), m.garden.Reload())
	case "reset":
		m.lastStage = -1
		m.focusV.SetTip("")
		return m.snapshotCmd()
	}
	return nil
}

// setSnapshot asks for a tip once per stage. Tick events carry no stage
// name, so a stage change first refreshes the full snapshot.
func (m *Model) setSnapshot(s focusdto.SnapshotOutput) tea.Cmd {
	m.snapshot = s
	m.focusV.SetSnapshot(s)
	if s.State != "running" || s.Stage == m.lastStage {
		return nil
	}
	if s.StageName == "" {
		return m.snapshotCmd()
	}
	m.lastStage = s.Stage
	return tea.Batch(m.focusV.LoadTip(), m.tipCmd(s.Stage, s.StageName))
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
		switch m.activeTab {
		case tabTimeline:
			content = m.timeline.View()
		case tabFocus:
			content = m.focusV.View()
		case tabGarden:
			content = m.garden.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
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
	bar := "blockgarden  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.snapshot.State == "running" {
		left = theme.Hot.Render("● "+m.snapshot.SelectedEntityID+" "+focusview.Clock(m.snapshot.SecondsRemaining)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  ::command  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette ─────────────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	blockID, hasBlock := m.timeline.SelectedBlockID()

	switch parts[0] {
	case "activity":
		if !hasBlock {
			m.status = "no block selected"
			return m, nil
		}
		return m, m.updateCmd(func(ctx context.Context) (scheduledto.UpdateBlockOutput, error) {
			return m.schedule.SetActivity(ctx, blockID, rest)
		})
	case "status":
		if !hasBlock || rest == "" {
			m.status = "usage: status <pending|active|completed|missed>"
			return m, nil
		}
		return m, m.updateCmd(func(ctx context.Context) (scheduledto.UpdateBlockOutput, error) {
			return m.schedule.SetStatus(ctx, blockID, rest)
		})
	case "plant":
		if rest == "" {
			m.status = "usage: plant <species>"
			return m, nil
		}
		m.activeTab = tabFocus
		return m, m.selectEntityCmd(rest)
	case "start":
		return m, m.transitionCmd(func(ctx context.Context) (focusdto.TransitionOutput, error) {
			s, err := m.focus.Start(ctx)
			return focusdto.TransitionOutput{Snapshot: s}, err
		})
	case "stop":
		return m, m.transitionCmd(m.focus.Stop)
	case "summarize":
		snippets := splitSnippets(rest)
		if len(snippets) == 0 {
			snippets = m.timeline.Snippets()
		}
		m.status = "summarizing…"
		return m, m.summarizeCmd(snippets)
	case "regenerate":
		return m, func() tea.Msg {
			day, err := m.schedule.Regenerate(context.Background())
			return timelineview.DayLoadedMsg{Day: day, Err: err}
		}
	case "tip":
		return m, tea.Batch(m.focusV.LoadTip(), m.tipCmd(m.snapshot.Stage, m.snapshot.StageName))
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func splitSnippets(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timeline, _ = m.timeline.Update(sz)
	m.focusV, _ = m.focusV.Update(sz)
	m.garden, _ = m.garden.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) waitEventCmd() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		return focusEventMsg{event: ev, ok: ok}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.focus.Snapshot(context.Background())
		return snapshotMsg{snapshot: s, err: err}
	}
}

func (m Model) toggleCmd() tea.Cmd {
	return m.transitionCmd(m.focus.Toggle)
}

func (m Model) transitionCmd(fn func(context.Context) (focusdto.TransitionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return transitionMsg{out: out, err: err}
	}
}

func (m Model) selectEntityCmd(entityID string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.focus.SelectEntity(context.Background(), entityID)
		return snapshotMsg{snapshot: s, err: err}
	}
}

func (m Model) selectBlockCmd(blockID int) tea.Cmd {
	return func() tea.Msg {
		s, err := m.focus.SelectBlock(context.Background(), blockID)
		return snapshotMsg{snapshot: s, err: err}
	}
}

func (m Model) tipCmd(stage int, stageName string) tea.Cmd {
	return func() tea.Msg {
		return tipMsg{stage: stage, text: m.assistant.FocusTip(context.Background(), stage, stageName)}
	}
}

func (m Model) updateCmd(fn func(context.Context) (scheduledto.UpdateBlockOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return updatedMsg{out: out, err: err}
	}
}

// summarizeCmd asks the assistant and writes a real summary into the
// current block. Fallback text is only shown in the status bar.
func (m Model) summarizeCmd(snippets []string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		text := m.assistant.Summarize(ctx, snippets)
		if text.Fallback {
			return summaryMsg{text: text}
		}
		current, ok, err := m.schedule.Current(ctx)
		if err != nil || !ok {
			return summaryMsg{text: text, err: err}
		}
		out, err := m.schedule.SetActivity(ctx, current.ID, text.Text)
		return summaryMsg{text: text, blockID: current.ID, day: out.Day, applied: out.Applied, err: err}
	}
}
