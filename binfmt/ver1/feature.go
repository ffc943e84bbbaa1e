package ver1

import (
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Feature describes one unit of the binary format, such as WebAssembly 1.0 or
// multi-value. A feature contributes behavior by implementing any of the
// provider interfaces below; Compose discovers them by type assertion.
type Feature interface {
	Name() string
	BinfmtVersion() uint32
}

// SectionProvider contributes section storages.
type SectionProvider interface {
	Feature
	Sections() []SectionFactory
}

// ValueTypeProvider extends the set of legal value-type bytes.
type ValueTypeProvider interface {
	Feature
	ValueTypes() []wasm.ValueType
}

// MultiValueProvider lifts the single-result restriction on function types.
type MultiValueProvider interface {
	Feature
	AllowMultiResultVector() bool
}

// FinalChecker validates cross-section invariants once all sections are decoded.
type FinalChecker interface {
	Feature
	FinalCheck(m *Module) error
}

// CustomSectionOrdinalProvider maps well-known custom section names to ordinals.
type CustomSectionOrdinalProvider interface {
	Feature
	CustomSectionOrdinals() map[string]int
}

// LimitsProvider tightens parser limits. When several features provide limits,
// the smallest value of each field wins.
type LimitsProvider interface {
	Feature
	ParserLimits() Limits
}

// Limits caps declared counts so a hostile module cannot force huge reservations.
type Limits struct {
	MaxTypes       uint32
	MaxImports     uint32
	MaxFunctions   uint32
	MaxTables      uint32
	MaxMemories    uint32
	MaxGlobals     uint32
	MaxExports     uint32
	MaxCodes       uint32
	MaxCodeLocals  uint32
	MaxDataEntries uint32
	MaxElemEntries uint32
}

// DefaultLimits returns the limits applied when no feature overrides them.
func DefaultLimits() Limits {
	return Limits{
		MaxTypes:       262144,
		MaxImports:     262144,
		MaxFunctions:   262144,
		MaxTables:      1024,
		MaxMemories:    1024,
		MaxGlobals:     262144,
		MaxExports:     262144,
		MaxCodes:       262144,
		MaxCodeLocals:  65536,
		MaxDataEntries: 262144,
		MaxElemEntries: 262144,
	}
}

func (l Limits) tighten(o Limits) Limits {
	pick := func(a, b uint32) uint32 {
		if b != 0 && b < a {
			return b
		}
		return a
	}
	return Limits{
		MaxTypes:       pick(l.MaxTypes, o.MaxTypes),
		MaxImports:     pick(l.MaxImports, o.MaxImports),
		MaxFunctions:   pick(l.MaxFunctions, o.MaxFunctions),
		MaxTables:      pick(l.MaxTables, o.MaxTables),
		MaxMemories:    pick(l.MaxMemories, o.MaxMemories),
		MaxGlobals:     pick(l.MaxGlobals, o.MaxGlobals),
		MaxExports:     pick(l.MaxExports, o.MaxExports),
		MaxCodes:       pick(l.MaxCodes, o.MaxCodes),
		MaxCodeLocals:  pick(l.MaxCodeLocals, o.MaxCodeLocals),
		MaxDataEntries: pick(l.MaxDataEntries, o.MaxDataEntries),
		MaxElemEntries: pick(l.MaxElemEntries, o.MaxElemEntries),
	}
}

// Params is the merged parameter set of a composed format.
type Params struct {
	valueTypes      [256]bool
	Limits          Limits
	AllowMultiValue bool
}

// ValidValueType reports whether b is a legal value-type byte under the composed features.
func (p *Params) ValidValueType(b byte) bool {
	return p.valueTypes[b]
}

// LimitsFeature is a standalone feature that only tightens parser limits.
// It lets configuration inject limits without touching other features.
type LimitsFeature struct {
	Limits Limits
}

func (LimitsFeature) Name() string           { return "parser-limits" }
func (LimitsFeature) BinfmtVersion() uint32  { return wasm.Version1 }
func (f LimitsFeature) ParserLimits() Limits { return f.Limits }
