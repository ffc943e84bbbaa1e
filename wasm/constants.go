package wasm

// Binary module header.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version1 is the binfmt version of WebAssembly 1.0 modules.
	Version1 uint32 = 0x01

	// HeaderSize is the size of the magic plus version words.
	HeaderSize = 8
)

// MagicBytes is Magic as it appears on the wire.
var MagicBytes = [4]byte{0x00, 0x61, 0x73, 0x6D}

// Section IDs define the binary identifiers for each module section.
// Sections must appear in increasing order by ID (except custom sections).
const (
	SectionCustom    byte = 0  // Custom section (can appear anywhere)
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
)

// ExternalKind tags an import or export descriptor.
type ExternalKind byte

const (
	KindFunc   ExternalKind = 0
	KindTable  ExternalKind = 1
	KindMemory ExternalKind = 2
	KindGlobal ExternalKind = 3
)

// ExternalKindCount is the number of descriptor kinds in WebAssembly 1.0.
const ExternalKindCount = 4

func (k ExternalKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Value type encodings as defined in the WebAssembly binary format.
const (
	ValI32 ValueType = 0x7F
	ValI64 ValueType = 0x7E
	ValF32 ValueType = 0x7D
	ValF64 ValueType = 0x7C
)

// Type constructor prefixes.
const (
	FuncTypePrefix byte = 0x60
	FuncRef        byte = 0x70
)

// Limits flags.
const (
	LimitsMinOnly byte = 0x00
	LimitsMinMax  byte = 0x01
)

// Global mutability flags.
const (
	GlobalConst byte = 0x00
	GlobalVar   byte = 0x01
)

// PageSize is the size of a linear memory page.
const PageSize = 65536

// MaxMemoryPages bounds a wasm32 memory (4 GiB).
const MaxMemoryPages = 65536
