package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Import is one decoded import entry. Names borrow the module image.
type Import struct {
	ModuleName wasm.Name
	ExternName wasm.Name
	Extern     wasm.ExternType
	// TypeIndex is the signature index of a function import.
	TypeIndex uint32
	Offset    int
}

// ImportSection holds the imports of a module (id 2).
type ImportSection struct {
	ver1.SectionState
	Imports []Import
	// Importdesc groups indices into Imports by descriptor kind.
	Importdesc [wasm.ExternalKindCount][]int
}

func (*ImportSection) ID() byte     { return wasm.SectionImport }
func (*ImportSection) Name() string { return "Import" }

// Count returns the number of imports of kind k.
func (s *ImportSection) Count(k wasm.ExternalKind) int {
	if int(k) >= len(s.Importdesc) {
		return 0
	}
	return len(s.Importdesc[k])
}

// Of returns the imports of kind k in declaration order.
func (s *ImportSection) Of(k wasm.ExternalKind) []*Import {
	if int(k) >= len(s.Importdesc) {
		return nil
	}
	out := make([]*Import, len(s.Importdesc[k]))
	for i, idx := range s.Importdesc[k] {
		out[i] = &s.Imports[idx]
	}
	return out
}

// Decode decodes the import vector. The type section must already be decoded
// because function imports resolve their signature immediately.
func (s *ImportSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionImport, idOffset)
	}
	types, ok := ver1.Get[*TypeSection](m)
	if !ok || !types.Present() {
		return errors.New(errors.CodeForwardDependencyMissing, idOffset).U8Pair(wasm.SectionType, wasm.SectionImport).Build()
	}

	p := m.Params()
	c := newCursor(m, span)

	count, err := c.count(errors.CodeInvalidImportCount, p.Limits.MaxImports)
	if err != nil {
		return err
	}
	s.Imports = make([]Import, 0, count)

	var resolved uint32
	for !c.done() {
		entryAt := c.pos
		if resolved++; resolved > count {
			return errors.New(errors.CodeImportSectionResolvedExceeded, entryAt).U32(count).Build()
		}

		imp := Import{Offset: entryAt}
		if imp.ModuleName, err = c.name(importModuleNameCodes); err != nil {
			return err
		}
		// extern name length and descriptor tag need at least one byte each
		if c.remaining() < 2 {
			return errors.New(errors.CodeNotEnoughSpace, c.pos).End(c.end()).Build()
		}
		if imp.ExternName, err = c.name(importExternNameCodes); err != nil {
			return err
		}
		if c.done() {
			return errors.New(errors.CodeImportMissingImportType, c.pos).Scan(wasm.ScanEndOfFile).Build()
		}

		tagAt := c.pos
		tag := c.data[c.pos]
		if tag >= wasm.ExternalKindCount {
			return errors.New(errors.CodeIllegalImportdescPrefix, tagAt).U8(tag).Build()
		}
		c.pos++
		imp.Extern.Type = wasm.ExternalKind(tag)

		if err := s.decodeDesc(c, &imp, types, p); err != nil {
			return err
		}

		s.Importdesc[tag] = append(s.Importdesc[tag], len(s.Imports))
		s.Imports = append(s.Imports, imp)
	}

	if resolved != count {
		return errors.New(errors.CodeImportSectionResolvedNotMatch, c.pos).U32Pair(resolved, count).Build()
	}
	return nil
}

func (s *ImportSection) decodeDesc(c *cursor, imp *Import, types *TypeSection, p *ver1.Params) error {
	switch imp.Extern.Type {
	case wasm.KindFunc:
		at := c.pos
		idx, err := c.u32(errors.CodeInvalidTypeIndex)
		if err != nil {
			return err
		}
		if uint64(idx) >= uint64(len(types.Types)) {
			return errors.New(errors.CodeIllegalTypeIndex, at).U32(idx).Build()
		}
		imp.TypeIndex = idx
		imp.Extern.Function = &types.Types[idx]
	case wasm.KindTable:
		tt, err := c.tableType()
		if err != nil {
			return err
		}
		imp.Extern.Table = &tt
	case wasm.KindMemory:
		mt, err := c.memoryType()
		if err != nil {
			return err
		}
		imp.Extern.Memory = &mt
	case wasm.KindGlobal:
		gt, err := c.globalType(p)
		if err != nil {
			return err
		}
		imp.Extern.Global = &gt
	}
	return nil
}
