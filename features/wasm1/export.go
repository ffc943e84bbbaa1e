package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Export is one decoded export entry.
type Export struct {
	Name   wasm.Name
	Index  uint32
	Offset int
	Kind   wasm.ExternalKind
}

// ExportSection holds the exports of a module (id 7). Names are unique.
type ExportSection struct {
	ver1.SectionState
	Exports []Export
}

func (*ExportSection) ID() byte     { return wasm.SectionExport }
func (*ExportSection) Name() string { return "Export" }

// Lookup returns the export called name.
func (s *ExportSection) Lookup(name string) (*Export, bool) {
	for i := range s.Exports {
		if string(s.Exports[i].Name.Bytes) == name {
			return &s.Exports[i], true
		}
	}
	return nil, false
}

func (s *ExportSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionExport, idOffset)
	}
	c := newCursor(m, span)
	count, err := c.count(errors.CodeInvalidExportCount, m.Params().Limits.MaxExports)
	if err != nil {
		return err
	}
	s.Exports = make([]Export, 0, count)
	seen := make(map[string]struct{}, count)

	for !c.done() {
		at := c.pos
		if uint32(len(s.Exports)) == count {
			return errors.New(errors.CodeExportSectionResolvedNotMatch, at).U32Pair(count+1, count).Build()
		}
		name, err := c.name(exportNameCodes)
		if err != nil {
			return err
		}
		if _, dup := seen[string(name.Bytes)]; dup {
			return errors.Fault(errors.CodeDuplicateExportName, name.Offset)
		}
		seen[string(name.Bytes)] = struct{}{}

		kindAt := c.pos
		kind, err := c.readByte(errors.CodeNotEnoughSpace)
		if err != nil {
			return err
		}
		if kind >= wasm.ExternalKindCount {
			return errors.New(errors.CodeIllegalExportKind, kindAt).U8(kind).Build()
		}
		idx, err := c.u32(errors.CodeInvalidExportIndex)
		if err != nil {
			return err
		}
		s.Exports = append(s.Exports, Export{Name: name, Kind: wasm.ExternalKind(kind), Index: idx, Offset: at})
	}

	if n := uint32(len(s.Exports)); n != count {
		return errors.New(errors.CodeExportSectionResolvedNotMatch, c.pos).U32Pair(n, count).Build()
	}
	return nil
}

// StartSection names the function run at instantiation (id 8).
type StartSection struct {
	ver1.SectionState
	FuncIndex uint32
}

func (*StartSection) ID() byte     { return wasm.SectionStart }
func (*StartSection) Name() string { return "Start" }

func (s *StartSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionStart, idOffset)
	}
	c := newCursor(m, span)
	idx, err := c.u32(errors.CodeInvalidStartIndex)
	if err != nil {
		return err
	}
	s.FuncIndex = idx
	return trailing(c)
}
