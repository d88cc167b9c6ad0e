package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blockgarden/internal/ui/theme"
)

// PaletteSubmitMsg carries the confirmed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Commands lists the palette verbs with their usage. app/model.go
// executePalette handles exactly these verbs.
var Commands = []Command{
	{Verb: "activity", Usage: "activity <text>"},
	{Verb: "status", Usage: "status <pending|active|completed|missed>"},
	{Verb: "plant", Usage: "plant <species>"},
	{Verb: "start", Usage: "start"},
	{Verb: "stop", Usage: "stop"},
	{Verb: "summarize", Usage: "summarize <snippet> | <snippet> ..."},
	{Verb: "regenerate", Usage: "regenerate"},
	{Verb: "tip", Usage: "tip"},
}

type Command struct {
	Verb  string
	Usage string
}

// Palette is a one-line command prompt overlay. Tab completes the verb.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "activity, status, plant, summarize…"
	ti.CharLimit = 512
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if matches := Match(p.input.Value()); len(matches) == 1 {
				p.input.SetValue(matches[0].Verb + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// Match returns the commands whose verb starts with the typed verb.
func Match(input string) []Command {
	verb := strings.ToLower(strings.TrimSpace(input))
	if i := strings.IndexByte(verb, ' '); i >= 0 {
		verb = verb[:i]
	}
	var out []Command
	for _, c := range Commands {
		if strings.HasPrefix(c.Verb, verb) {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matches := Match(p.input.Value()); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			sb.WriteString(hintStyle.Render("  "+c.Usage) + "\n")
		}
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
