package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/features/wasm1"
	"github.com/wippyai/wasm-binfmt/wasm"
)

type sectionRow struct {
	name   string
	id     byte
	offset int
	length int
}

type summary struct {
	sections []sectionRow
	types    []string
	imports  []string
	exports  []string
	version  uint32
	size     int
}

type spanned interface {
	Span() ver1.SectionSpan
}

// summarize lists every present section in file order and describes the
// type, import and export vectors.
func summarize(m *ver1.Module, version uint32) summary {
	s := summary{version: version, size: m.Span.Len()}
	for _, sec := range m.Sections() {
		if sec == nil || !sec.Present() {
			continue
		}
		switch v := sec.(type) {
		case *wasm1.CustomSection:
			for _, c := range v.Customs {
				s.sections = append(s.sections, sectionRow{
					name:   fmt.Sprintf("Custom %q", c.Name.String()),
					id:     wasm.SectionCustom,
					offset: c.Span.Begin,
					length: c.Span.Len(),
				})
			}
		case spanned:
			sp := v.Span()
			s.sections = append(s.sections, sectionRow{name: sec.Name(), id: sec.ID(), offset: sp.Begin, length: sp.Len()})
		}
	}
	sort.Slice(s.sections, func(i, j int) bool { return s.sections[i].offset < s.sections[j].offset })

	if ts, ok := ver1.Get[*wasm1.TypeSection](m); ok {
		for i := range ts.Types {
			s.types = append(s.types, fmt.Sprintf("%d: %s", i, ts.Types[i].String()))
		}
	}
	if is, ok := ver1.Get[*wasm1.ImportSection](m); ok {
		for _, imp := range is.Imports {
			desc := imp.Extern.Type.String()
			if imp.Extern.Type == wasm.KindFunc {
				desc = fmt.Sprintf("func type %d", imp.TypeIndex)
			}
			s.imports = append(s.imports, fmt.Sprintf("%s.%s (%s)", imp.ModuleName, imp.ExternName, desc))
		}
	}
	if es, ok := ver1.Get[*wasm1.ExportSection](m); ok {
		for _, e := range es.Exports {
			s.exports = append(s.exports, fmt.Sprintf("%s (%s %d)", e.Name, e.Kind, e.Index))
		}
	}
	return s
}

// hexDump formats b as rows of 16 bytes addressed by module offset.
func hexDump(b []byte, base int) string {
	var sb strings.Builder
	for row := 0; row < len(b); row += 16 {
		end := min(row+16, len(b))
		fmt.Fprintf(&sb, "%08x:", base+row)
		for _, c := range b[row:end] {
			fmt.Fprintf(&sb, " %02x", c)
		}
		sb.WriteString(strings.Repeat("   ", 16-(end-row)))
		sb.WriteString("  ")
		for _, c := range b[row:end] {
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
