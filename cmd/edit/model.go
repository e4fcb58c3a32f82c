package edit

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gsylte/versemix/corpus"
	"github.com/gsylte/versemix/engine"
	"github.com/gsylte/versemix/share"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	chipStyle       = lipgloss.NewStyle().Padding(0, 1)
	playingStyle    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230"))
	inputStyle      = lipgloss.NewStyle().Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	flagOnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	flagOffStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const maxSuggestions = 8

// engineChangedMsg is sent whenever the engine's observable state changed
// (marker moved, playback started/stopped, selection edited elsewhere).
type engineChangedMsg struct{}

type model struct {
	corpus *corpus.Corpus
	eng    *engine.Engine

	input     string
	status    string
	audioOn   bool

	width  int
	height int
}

func newModel(c *corpus.Corpus, eng *engine.Engine, audioOn bool) model {
	return model{
		corpus:  c,
		eng:     eng,
		audioOn: audioOn,
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case engineChangedMsg:
		// View re-reads the engine; nothing to do beyond a repaint.
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if msg.Type == tea.KeyEsc && m.input != "" {
			m.input = ""
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.input == "" {
			m.eng.TogglePlayback()
			return m, nil
		}
		return m.commitInput(), nil

	case tea.KeySpace:
		if m.input == "" {
			m.eng.TogglePlayback()
			return m, nil
		}
		return m.commitInput(), nil

	case tea.KeyTab:
		if sug := m.suggestions(); len(sug) > 0 {
			m.input = sug[0]
		}
		return m, nil

	case tea.KeyBackspace:
		if m.input != "" {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
			return m, nil
		}
		m.stopForEdit()
		m.eng.RemoveLastToken()
		return m, nil

	case tea.KeyCtrlR:
		m.eng.ToggleRepeat()
		return m, nil

	case tea.KeyCtrlX:
		m.stopForEdit()
		m.eng.ClearSelection()
		return m, nil

	case tea.KeyCtrlS:
		code, err := share.Encode(m.eng.Selection())
		if err != nil {
			m.status = "nothing to share yet"
			return m, nil
		}
		m.status = share.BaseURL + code
		return m, nil

	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

// commitInput appends the typed token to the composition and previews it.
func (m model) commitInput() model {
	text := strings.TrimSpace(m.input)
	m.input = ""
	if text == "" {
		return m
	}
	// Previewing over running playback is confusing; editing restarts from a
	// clean transport.
	m.stopForEdit()
	if err := m.eng.AddToken(text); err != nil {
		if errors.Is(err, engine.ErrUnknownToken) {
			m.status = fmt.Sprintf("no token %q in this song", text)
		} else {
			m.status = err.Error()
		}
	}
	return m
}

func (m *model) stopForEdit() {
	if m.eng.IsPlaying() {
		m.eng.Stop()
	}
}

func (m model) suggestions() []string {
	if m.input == "" {
		return nil
	}
	sug := m.corpus.MatchPrefix(m.input)
	if len(sug) > maxSuggestions {
		sug = sug[:maxSuggestions]
	}
	return sug
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("versemix"))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d tokens in song", m.corpus.Len())))
	b.WriteString("\n\n")

	b.WriteString(m.viewSelection())
	b.WriteString("\n\n")

	b.WriteString(inputStyle.Render("> " + m.input))
	b.WriteString(inputStyle.Render("█"))
	b.WriteString("\n")
	if sug := m.suggestions(); len(sug) > 0 {
		b.WriteString(suggestionStyle.Render("  " + strings.Join(sug, "  ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.viewFlags())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("type+space add · space play/stop · bksp undo · ^r repeat · ^x clear · ^s share · esc quit"))
	return b.String()
}

// viewSelection renders the composition as chips, highlighting the segment
// under the playback marker.
func (m model) viewSelection() string {
	selection := m.eng.Selection()
	if len(selection) == 0 {
		return helpStyle.Render("(empty — type a lyric token to begin)")
	}
	marker, hasMarker := m.eng.PlayingMarker()

	// Chips are styled (ANSI-laden), so fit is tracked on the plain labels
	// with runewidth and whole chips are dropped rather than cut mid-escape.
	var line strings.Builder
	used := 0
	for pos, idx := range selection {
		tok := m.corpus.Token(idx)
		label := tok.Text
		if tok.Emoji != "" {
			label += " " + tok.Emoji
		}
		chipWidth := runewidth.StringWidth(label) + 3 // padding + separator
		if m.width > 4 && used+chipWidth > m.width-2 {
			line.WriteString(helpStyle.Render("…"))
			break
		}
		used += chipWidth
		if pos > 0 {
			line.WriteString(" ")
		}
		if hasMarker && marker.Pos == pos {
			line.WriteString(playingStyle.Render(label))
		} else {
			line.WriteString(chipStyle.Render(label))
		}
	}
	return line.String()
}

func (m model) viewFlags() string {
	render := func(on bool, label string) string {
		if on {
			return flagOnStyle.Render(label)
		}
		return flagOffStyle.Render(label)
	}
	parts := []string{
		render(m.eng.IsPlaying(), "▶ playing"),
		render(m.eng.Repeat(), "⟳ repeat"),
		render(m.audioOn, "♪ audio"),
	}
	return strings.Join(parts, "   ")
}
