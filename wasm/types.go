package wasm

import "unicode/utf8"

// ValueType is a single value-type byte as encoded in the binary format.
type ValueType byte

func (v ValueType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether v is one of the four WebAssembly 1.0 number types.
func (v ValueType) IsNumeric() bool {
	return v == ValI32 || v == ValI64 || v == ValF32 || v == ValF64
}

// ValueTypeSpan is a zero-copy view over a run of value-type bytes in a module image.
// Offset is the position of the first byte relative to the module start.
type ValueTypeSpan struct {
	Bytes  []byte
	Offset int
}

// Len returns the number of value types in the span.
func (s ValueTypeSpan) Len() int { return len(s.Bytes) }

// At returns the i-th value type.
func (s ValueTypeSpan) At(i int) ValueType { return ValueType(s.Bytes[i]) }

// Types copies the span into a fresh slice.
func (s ValueTypeSpan) Types() []ValueType {
	out := make([]ValueType, len(s.Bytes))
	for i, b := range s.Bytes {
		out[i] = ValueType(b)
	}
	return out
}

func (s ValueTypeSpan) String() string {
	buf := make([]byte, 0, 2+5*len(s.Bytes))
	buf = append(buf, '(')
	for i, b := range s.Bytes {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, ValueType(b).String()...)
	}
	return string(append(buf, ')'))
}

// FunctionType is a decoded function signature. Both spans borrow the module image.
type FunctionType struct {
	Parameter ValueTypeSpan
	Result    ValueTypeSpan
}

func (f *FunctionType) String() string {
	return f.Parameter.String() + " -> " + f.Result.String()
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

// TableType describes a table with element type and size limits.
type TableType struct {
	ElemType byte
	Limits   Limits
}

// MemoryType describes a linear memory with page limits.
type MemoryType struct {
	Limits Limits
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValueType ValueType
	Mutable   bool
}

// ExternType is the tagged descriptor of an import. Exactly one payload matching Type is set.
type ExternType struct {
	Function *FunctionType
	Table    *TableType
	Memory   *MemoryType
	Global   *GlobalType
	Type     ExternalKind
}

// Name is a UTF-8 name borrowed from the module image.
type Name struct {
	Bytes  []byte
	Offset int
}

func (n Name) String() string { return string(n.Bytes) }

// Valid reports whether the name is well-formed UTF-8.
func (n Name) Valid() bool { return utf8.Valid(n.Bytes) }
