package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Global, element and data segments carry constant expressions. Their entries
// are kept as an opaque payload after the declared count; evaluating the
// expressions is left to the instantiation layer.

// opaqueSection records a declared count and the bytes that follow it.
type opaqueSection struct {
	ver1.SectionState
	Payload []byte
	Count   uint32
}

func (s *opaqueSection) decode(m *ver1.Module, span ver1.SectionSpan, idOffset int, id byte, code errors.Code, limit uint32) error {
	if !s.Claim(span) {
		return duplicate(id, idOffset)
	}
	c := newCursor(m, span)
	count, err := c.count(code, limit)
	if err != nil {
		return err
	}
	s.Count = count
	s.Payload = c.data[c.pos:span.End:span.End]
	return nil
}

// GlobalSection holds the globals defined by a module (id 6).
type GlobalSection struct {
	opaqueSection
}

func (*GlobalSection) ID() byte     { return wasm.SectionGlobal }
func (*GlobalSection) Name() string { return "Global" }

func (s *GlobalSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	return s.decode(m, span, idOffset, wasm.SectionGlobal, errors.CodeInvalidGlobalCount, m.Params().Limits.MaxGlobals)
}

// ElementSection holds the table initializers of a module (id 9).
type ElementSection struct {
	opaqueSection
}

func (*ElementSection) ID() byte     { return wasm.SectionElement }
func (*ElementSection) Name() string { return "Element" }

func (s *ElementSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	return s.decode(m, span, idOffset, wasm.SectionElement, errors.CodeInvalidElementCount, m.Params().Limits.MaxElemEntries)
}

// DataSection holds the memory initializers of a module (id 11).
type DataSection struct {
	opaqueSection
}

func (*DataSection) ID() byte     { return wasm.SectionData }
func (*DataSection) Name() string { return "Data" }

func (s *DataSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	return s.decode(m, span, idOffset, wasm.SectionData, errors.CodeInvalidDataCount, m.Params().Limits.MaxDataEntries)
}
