package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Spaces counts the entries of each index space, imports first.
type Spaces struct {
	Funcs    uint64
	Tables   uint64
	Memories uint64
	Globals  uint64
}

// IndexSpaces computes the index space sizes of a decoded module.
func IndexSpaces(m *ver1.Module) Spaces {
	var sp Spaces
	if imp, ok := ver1.Get[*ImportSection](m); ok {
		sp.Funcs = uint64(imp.Count(wasm.KindFunc))
		sp.Tables = uint64(imp.Count(wasm.KindTable))
		sp.Memories = uint64(imp.Count(wasm.KindMemory))
		sp.Globals = uint64(imp.Count(wasm.KindGlobal))
	}
	if fn, ok := ver1.Get[*FunctionSection](m); ok {
		sp.Funcs += uint64(len(fn.TypeIndices))
	}
	if t, ok := ver1.Get[*TableSection](m); ok {
		sp.Tables += uint64(len(t.Tables))
	}
	if mem, ok := ver1.Get[*MemorySection](m); ok {
		sp.Memories += uint64(len(mem.Memories))
	}
	if g, ok := ver1.Get[*GlobalSection](m); ok {
		sp.Globals += uint64(g.Count)
	}
	return sp
}

func (s Spaces) of(k wasm.ExternalKind) uint64 {
	switch k {
	case wasm.KindFunc:
		return s.Funcs
	case wasm.KindTable:
		return s.Tables
	case wasm.KindMemory:
		return s.Memories
	default:
		return s.Globals
	}
}

// FinalCheck validates invariants that span several sections: every defined
// function has a body, the start function exists, exports reference existing
// entities, and at most one table and one memory are present.
func (Wasm1) FinalCheck(m *ver1.Module) error {
	fn, _ := ver1.Get[*FunctionSection](m)
	code, _ := ver1.Get[*CodeSection](m)

	var defined, bodies int
	at := m.Span.End()
	if fn != nil {
		defined = len(fn.TypeIndices)
		if fn.Present() {
			at = fn.Span().Begin
		}
	}
	if code != nil {
		bodies = len(code.Bodies)
		if code.Present() {
			at = code.Span().Begin
		}
	}
	if defined != bodies {
		return errors.New(errors.CodeCodeNeDefinedFunc, at).U32Pair(uint32(bodies), uint32(defined)).Build()
	}

	sp := IndexSpaces(m)

	if start, ok := ver1.Get[*StartSection](m); ok && start.Present() {
		if uint64(start.FuncIndex) >= sp.Funcs {
			return errors.New(errors.CodeIllegalStartIndex, start.Span().Begin).U32(start.FuncIndex).Build()
		}
	}

	if exp, ok := ver1.Get[*ExportSection](m); ok {
		for _, e := range exp.Exports {
			if uint64(e.Index) >= sp.of(e.Kind) {
				return errors.New(errors.CodeIllegalExportIndex, e.Offset).U32(e.Index).Build()
			}
		}
	}

	if sp.Memories > 1 {
		return errors.New(errors.CodeWasm1MultipleMemories, sectionBegin[*MemorySection](m)).U64(sp.Memories).Build()
	}
	if sp.Tables > 1 {
		return errors.New(errors.CodeWasm1MultipleTables, sectionBegin[*TableSection](m)).U64(sp.Tables).Build()
	}
	return nil
}

type spanned interface {
	ver1.Section
	Span() ver1.SectionSpan
}

func sectionBegin[T spanned](m *ver1.Module) int {
	if s, ok := ver1.Get[T](m); ok && s.Present() {
		return s.Span().Begin
	}
	return m.Span.End()
}
