package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// FunctionSection holds the signature index of every defined function (id 3).
type FunctionSection struct {
	ver1.SectionState
	TypeIndices []uint32
}

func (*FunctionSection) ID() byte     { return wasm.SectionFunction }
func (*FunctionSection) Name() string { return "Function" }

func (s *FunctionSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionFunction, idOffset)
	}
	var ntypes int
	if types, ok := ver1.Get[*TypeSection](m); ok {
		ntypes = len(types.Types)
	}

	c := newCursor(m, span)
	count, err := c.count(errors.CodeInvalidFunctionCount, m.Params().Limits.MaxFunctions)
	if err != nil {
		return err
	}
	s.TypeIndices = make([]uint32, 0, count)

	var resolved uint32
	for !c.done() {
		at := c.pos
		if resolved++; resolved > count {
			return errors.New(errors.CodeFunctionSectionResolvedExceeded, at).U32(count).Build()
		}
		idx, err := c.u32(errors.CodeInvalidTypeIndex)
		if err != nil {
			return err
		}
		if uint64(idx) >= uint64(ntypes) {
			return errors.New(errors.CodeIllegalTypeIndex, at).U32(idx).Build()
		}
		s.TypeIndices = append(s.TypeIndices, idx)
	}

	if resolved != count {
		return errors.New(errors.CodeFunctionSectionResolvedNotMatch, c.pos).U32Pair(resolved, count).Build()
	}
	return nil
}

// TableSection holds the tables defined by a module (id 4).
type TableSection struct {
	ver1.SectionState
	Tables []wasm.TableType
}

func (*TableSection) ID() byte     { return wasm.SectionTable }
func (*TableSection) Name() string { return "Table" }

func (s *TableSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionTable, idOffset)
	}
	c := newCursor(m, span)
	count, err := c.count(errors.CodeInvalidTableCount, m.Params().Limits.MaxTables)
	if err != nil {
		return err
	}
	s.Tables = make([]wasm.TableType, 0, count)
	for !c.done() {
		if uint32(len(s.Tables)) == count {
			return errors.New(errors.CodeTableSectionResolvedNotMatch, c.pos).U32Pair(count+1, count).Build()
		}
		tt, err := c.tableType()
		if err != nil {
			return err
		}
		s.Tables = append(s.Tables, tt)
	}
	if n := uint32(len(s.Tables)); n != count {
		return errors.New(errors.CodeTableSectionResolvedNotMatch, c.pos).U32Pair(n, count).Build()
	}
	return nil
}

// MemorySection holds the memories defined by a module (id 5).
type MemorySection struct {
	ver1.SectionState
	Memories []wasm.MemoryType
}

func (*MemorySection) ID() byte     { return wasm.SectionMemory }
func (*MemorySection) Name() string { return "Memory" }

func (s *MemorySection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionMemory, idOffset)
	}
	c := newCursor(m, span)
	count, err := c.count(errors.CodeInvalidMemoryCount, m.Params().Limits.MaxMemories)
	if err != nil {
		return err
	}
	s.Memories = make([]wasm.MemoryType, 0, count)
	for !c.done() {
		if uint32(len(s.Memories)) == count {
			return errors.New(errors.CodeMemorySectionResolvedNotMatch, c.pos).U32Pair(count+1, count).Build()
		}
		mt, err := c.memoryType()
		if err != nil {
			return err
		}
		s.Memories = append(s.Memories, mt)
	}
	if n := uint32(len(s.Memories)); n != count {
		return errors.New(errors.CodeMemorySectionResolvedNotMatch, c.pos).U32Pair(n, count).Build()
	}
	return nil
}
