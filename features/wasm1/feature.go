// Package wasm1 is the WebAssembly 1.0 feature for the binfmt version 1 decoder.
//
// It contributes storages for sections 0 through 11, the four numeric value
// types, the single-result rule for function types (lifted by the multivalue
// feature), and a final check over cross-section invariants.
package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// NameSectionOrdinal is the ordinal of the "name" custom section.
const NameSectionOrdinal = 12

// Wasm1 is the WebAssembly 1.0 feature descriptor.
type Wasm1 struct{}

// Feature returns the WebAssembly 1.0 feature.
func Feature() Wasm1 { return Wasm1{} }

func (Wasm1) Name() string          { return "wasm1" }
func (Wasm1) BinfmtVersion() uint32 { return wasm.Version1 }

func (Wasm1) Sections() []ver1.SectionFactory {
	return []ver1.SectionFactory{
		{ID: wasm.SectionCustom, Name: "Custom", New: func() ver1.Section { return &CustomSection{} }},
		{ID: wasm.SectionType, Name: "Type", New: func() ver1.Section { return &TypeSection{} }},
		{ID: wasm.SectionImport, Name: "Import", New: func() ver1.Section { return &ImportSection{} }},
		{ID: wasm.SectionFunction, Name: "Function", New: func() ver1.Section { return &FunctionSection{} }},
		{ID: wasm.SectionTable, Name: "Table", New: func() ver1.Section { return &TableSection{} }},
		{ID: wasm.SectionMemory, Name: "Memory", New: func() ver1.Section { return &MemorySection{} }},
		{ID: wasm.SectionGlobal, Name: "Global", New: func() ver1.Section { return &GlobalSection{} }},
		{ID: wasm.SectionExport, Name: "Export", New: func() ver1.Section { return &ExportSection{} }},
		{ID: wasm.SectionStart, Name: "Start", New: func() ver1.Section { return &StartSection{} }},
		{ID: wasm.SectionElement, Name: "Element", New: func() ver1.Section { return &ElementSection{} }},
		{ID: wasm.SectionCode, Name: "Code", New: func() ver1.Section { return &CodeSection{} }},
		{ID: wasm.SectionData, Name: "Data", New: func() ver1.Section { return &DataSection{} }},
	}
}

func (Wasm1) ValueTypes() []wasm.ValueType {
	return []wasm.ValueType{wasm.ValI32, wasm.ValI64, wasm.ValF32, wasm.ValF64}
}

func (Wasm1) CustomSectionOrdinals() map[string]int {
	return map[string]int{"name": NameSectionOrdinal}
}
