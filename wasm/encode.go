package wasm

import "github.com/wippyai/wasm-binfmt/wasm/internal/binary"

// Signature is an owned function signature used when building modules.
type Signature struct {
	Params  []ValueType
	Results []ValueType
}

// ImportEntry describes one import for Builder.Imports.
type ImportEntry struct {
	Module    string
	Name      string
	Table     TableType
	Memory    MemoryType
	Global    GlobalType
	TypeIndex uint32
	Kind      ExternalKind
}

// ExportEntry describes one export for Builder.Exports.
type ExportEntry struct {
	Name  string
	Index uint32
	Kind  ExternalKind
}

// Builder assembles a binary module. Sections are emitted in call order,
// which lets callers produce deliberately malformed layouts.
type Builder struct {
	w       *binary.Writer
	version uint32
}

// NewBuilder creates a builder for a version 1 module.
func NewBuilder() *Builder {
	return &Builder{w: binary.NewWriter(), version: Version1}
}

// Version overrides the header version word.
func (b *Builder) Version(v uint32) *Builder {
	b.version = v
	return b
}

// Raw appends a section with an arbitrary id and body.
func (b *Builder) Raw(id byte, body []byte) *Builder {
	b.w.Section(id, body)
	return b
}

// Custom appends a custom section.
func (b *Builder) Custom(name string, payload []byte) *Builder {
	w := binary.NewWriter()
	w.WriteName(name)
	w.WriteBytes(payload)
	return b.Raw(SectionCustom, w.Bytes())
}

// Types appends a type section.
func (b *Builder) Types(sigs ...Signature) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(sigs)))
	for _, s := range sigs {
		w.Byte(FuncTypePrefix)
		writeValueTypes(w, s.Params)
		writeValueTypes(w, s.Results)
	}
	return b.Raw(SectionType, w.Bytes())
}

// Imports appends an import section.
func (b *Builder) Imports(entries ...ImportEntry) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(entries)))
	for _, e := range entries {
		w.WriteName(e.Module)
		w.WriteName(e.Name)
		w.Byte(byte(e.Kind))
		switch e.Kind {
		case KindFunc:
			w.WriteU32(e.TypeIndex)
		case KindTable:
			writeTableType(w, e.Table)
		case KindMemory:
			writeLimits(w, e.Memory.Limits)
		case KindGlobal:
			writeGlobalType(w, e.Global)
		}
	}
	return b.Raw(SectionImport, w.Bytes())
}

// Functions appends a function section.
func (b *Builder) Functions(typeIndices ...uint32) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(typeIndices)))
	for _, idx := range typeIndices {
		w.WriteU32(idx)
	}
	return b.Raw(SectionFunction, w.Bytes())
}

// Tables appends a table section.
func (b *Builder) Tables(tables ...TableType) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(tables)))
	for _, t := range tables {
		writeTableType(w, t)
	}
	return b.Raw(SectionTable, w.Bytes())
}

// Memories appends a memory section.
func (b *Builder) Memories(mems ...MemoryType) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(mems)))
	for _, m := range mems {
		writeLimits(w, m.Limits)
	}
	return b.Raw(SectionMemory, w.Bytes())
}

// Exports appends an export section.
func (b *Builder) Exports(entries ...ExportEntry) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(entries)))
	for _, e := range entries {
		w.WriteName(e.Name)
		w.Byte(byte(e.Kind))
		w.WriteU32(e.Index)
	}
	return b.Raw(SectionExport, w.Bytes())
}

// Start appends a start section.
func (b *Builder) Start(funcIndex uint32) *Builder {
	w := binary.NewWriter()
	w.WriteU32(funcIndex)
	return b.Raw(SectionStart, w.Bytes())
}

// Code appends a code section. Each body is the raw locals+expression bytes.
func (b *Builder) Code(bodies ...[]byte) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(bodies)))
	for _, body := range bodies {
		w.WriteU32(uint32(len(body)))
		w.WriteBytes(body)
	}
	return b.Raw(SectionCode, w.Bytes())
}

// Bytes returns the header followed by all appended sections.
func (b *Builder) Bytes() []byte {
	w := binary.NewWriter()
	w.WriteBytes(MagicBytes[:])
	w.WriteU32LE(b.version)
	w.WriteBytes(b.w.Bytes())
	return w.Bytes()
}

func writeValueTypes(w *binary.Writer, types []ValueType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func writeLimits(w *binary.Writer, l Limits) {
	if l.HasMax {
		w.Byte(LimitsMinMax)
		w.WriteU32(l.Min)
		w.WriteU32(l.Max)
		return
	}
	w.Byte(LimitsMinOnly)
	w.WriteU32(l.Min)
}

func writeTableType(w *binary.Writer, t TableType) {
	elem := t.ElemType
	if elem == 0 {
		elem = FuncRef
	}
	w.Byte(elem)
	writeLimits(w, t.Limits)
}

func writeGlobalType(w *binary.Writer, g GlobalType) {
	w.Byte(byte(g.ValueType))
	if g.Mutable {
		w.Byte(GlobalVar)
	} else {
		w.Byte(GlobalConst)
	}
}
