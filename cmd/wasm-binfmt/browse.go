package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	up     key.Binding
	down   key.Binding
	scroll key.Binding
	quit   key.Binding
}

var keys = keyMap{
	up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev section")),
	down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next section")),
	scroll: key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll payload")),
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// browser lists the sections of a decoded module and shows the payload of the
// selected one.
type browser struct {
	st       styles
	path     string
	module   []byte
	sum      summary
	view     viewport.Model
	selected int
	ready    bool
}

func newBrowser(st styles, path string, module []byte, sum summary) *browser {
	return &browser{st: st, path: path, module: module, sum: sum}
}

func (m *browser) Init() tea.Cmd { return nil }

func (m *browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		listHeight := len(m.sum.sections) + 4
		h := max(msg.Height-listHeight-2, 3)
		if !m.ready {
			m.view = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.view.Width, m.view.Height = msg.Width, h
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.up):
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, keys.down):
			if m.selected < len(m.sum.sections)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil
		}
	}

	// the viewport handles its own paging keys
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *browser) refresh() {
	if !m.ready || len(m.sum.sections) == 0 {
		return
	}
	row := m.sum.sections[m.selected]
	m.view.SetContent(hexDump(m.module[row.offset:row.offset+row.length], row.offset))
	m.view.GotoTop()
}

func (m *browser) View() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("wasm-binfmt"))
	fmt.Fprintf(&b, " %s\n\n", m.path)

	if len(m.sum.sections) == 0 {
		b.WriteString("No sections.\n")
	}
	for i, row := range m.sum.sections {
		line := fmt.Sprintf("%-24s %#10x %10d", row.name, row.offset, row.length)
		if i == m.selected {
			b.WriteString(m.st.current.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.ready {
		b.WriteString(m.view.View())
		b.WriteByte('\n')
	}
	var help []string
	for _, k := range []key.Binding{keys.up, keys.down, keys.scroll, keys.quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(m.st.dim.Render(strings.Join(help, " • ")))
	return b.String()
}

func runBrowser(m *browser) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
