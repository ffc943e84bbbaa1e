package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/wasm-binfmt/config"
	binerr "github.com/wippyai/wasm-binfmt/errors"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	value   lipgloss.Style
	errTag  lipgloss.Style
	dim     lipgloss.Style
	okTag   lipgloss.Style
	current lipgloss.Style
}

// colorEnabled resolves a color mode against w.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		header:  r.NewStyle().Bold(true),
		value:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		errTag:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#666666")),
		okTag:   r.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		current: r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")),
	}
}

func (st styles) summary(path string, s summary) string {
	var b strings.Builder
	b.WriteString(st.title.Render("wasm-binfmt"))
	fmt.Fprintf(&b, " %s  version %s  %s bytes\n\n", path, st.value.Render(fmt.Sprint(s.version)), st.value.Render(fmt.Sprint(s.size)))

	b.WriteString(st.header.Render(fmt.Sprintf("%-4s %-24s %10s %10s", "id", "section", "offset", "length")))
	b.WriteByte('\n')
	for _, row := range s.sections {
		fmt.Fprintf(&b, "%-4d %-24s %s %s\n", row.id, row.name,
			st.value.Render(fmt.Sprintf("%#10x", row.offset)),
			st.value.Render(fmt.Sprintf("%10d", row.length)))
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", st.header.Render(fmt.Sprintf("%s (%d)", title, len(items))))
		for _, it := range items {
			fmt.Fprintf(&b, "  %s\n", it)
		}
	}
	list("Types", s.types)
	list("Imports", s.imports)
	list("Exports", s.exports)
	return b.String()
}

// fault renders a decode error. Errors that are not parse faults render as
// their message.
func (st styles) fault(path string, err error, module []byte) string {
	rep, ok := binerr.Explain(err, module)
	if !ok {
		return fmt.Sprintf("%s %s: %v\n", st.errTag.Render("[error]"), path, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s (%s) at offset %s\n", st.errTag.Render("[error]"), path,
		rep.Message, st.value.Render(rep.Code), st.value.Render(fmt.Sprintf("0x%x", rep.Offset)))
	if rep.Detail != "" {
		fmt.Fprintf(&b, "        %s\n", rep.Detail)
	}
	if rep.Context != "" {
		fmt.Fprintf(&b, "        %s\n", st.dim.Render(rep.Context))
	}
	return b.String()
}
