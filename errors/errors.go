package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wippyai/wasm-binfmt/wasm"
)

// Scan-level causes carried by Error.Unwrap.
var (
	ErrEndOfFile = errors.New("end of file")
	ErrInvalid   = errors.New("invalid encoding")
	ErrOverflow  = errors.New("value overflow")
)

// SelectableKind tells which Selectable field is meaningful.
type SelectableKind uint8

const (
	SelectNone SelectableKind = iota
	SelectU8
	SelectU8Pair
	SelectU32
	SelectU32Pair
	SelectU64
	SelectEnd
)

// Selectable is the optional payload that disambiguates a fault:
// an offending byte, declared versus actual counts, or a second offset.
type Selectable struct {
	U64     uint64
	U32Pair [2]uint32
	U32     uint32
	End     int
	U8Pair  [2]byte
	U8      byte
	Kind    SelectableKind
}

// Error is the single parse fault record. Offset is relative to the module start.
type Error struct {
	Selectable Selectable
	Offset     int
	Code       Code
	Scan       wasm.ScanCode
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[binfmt] %s at offset 0x%x", e.Code, e.Offset)
	switch e.Selectable.Kind {
	case SelectU8:
		fmt.Fprintf(&b, ": 0x%02x", e.Selectable.U8)
	case SelectU8Pair:
		fmt.Fprintf(&b, ": 0x%02x, 0x%02x", e.Selectable.U8Pair[0], e.Selectable.U8Pair[1])
	case SelectU32:
		fmt.Fprintf(&b, ": %d", e.Selectable.U32)
	case SelectU32Pair:
		fmt.Fprintf(&b, ": %d / %d", e.Selectable.U32Pair[0], e.Selectable.U32Pair[1])
	case SelectU64:
		fmt.Fprintf(&b, ": %d", e.Selectable.U64)
	case SelectEnd:
		fmt.Fprintf(&b, ": end 0x%x", e.Selectable.End)
	}
	if cause := e.Unwrap(); cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the scan-level cause, if the fault came from a primitive scan.
func (e *Error) Unwrap() error {
	switch e.Scan {
	case wasm.ScanEndOfFile:
		return ErrEndOfFile
	case wasm.ScanInvalid:
		return ErrInvalid
	case wasm.ScanOverflow:
		return ErrOverflow
	default:
		return nil
	}
}

// Is reports whether target is an *Error with the same Code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// CodeOf returns the Code carried by err, or CodeOK when err is not a parse fault.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeOK
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(code Code, offset int) *Builder {
	return &Builder{err: Error{Code: code, Offset: offset, Scan: wasm.ScanInvalid}}
}

// Scan records the primitive scan code that caused the fault.
func (b *Builder) Scan(c wasm.ScanCode) *Builder {
	b.err.Scan = c
	return b
}

// U8 sets an offending byte.
func (b *Builder) U8(v byte) *Builder {
	b.err.Selectable = Selectable{Kind: SelectU8, U8: v}
	return b
}

// U8Pair sets a pair of bytes, such as two section ids.
func (b *Builder) U8Pair(x, y byte) *Builder {
	b.err.Selectable = Selectable{Kind: SelectU8Pair, U8Pair: [2]byte{x, y}}
	return b
}

// U32 sets a single count or index.
func (b *Builder) U32(v uint32) *Builder {
	b.err.Selectable = Selectable{Kind: SelectU32, U32: v}
	return b
}

// U32Pair sets an actual/declared pair.
func (b *Builder) U32Pair(actual, declared uint32) *Builder {
	b.err.Selectable = Selectable{Kind: SelectU32Pair, U32Pair: [2]uint32{actual, declared}}
	return b
}

// U64 sets a wide value.
func (b *Builder) U64(v uint64) *Builder {
	b.err.Selectable = Selectable{Kind: SelectU64, U64: v}
	return b
}

// End sets a second offset, usually the end of the range that was too short.
func (b *Builder) End(offset int) *Builder {
	b.err.Selectable = Selectable{Kind: SelectEnd, End: offset}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Fault is shorthand for a fault with no payload and an invalid-encoding cause.
func Fault(code Code, offset int) *Error {
	return &Error{Code: code, Offset: offset, Scan: wasm.ScanInvalid}
}

// ScanFault wraps a failed primitive scan.
func ScanFault(code Code, offset int, scan wasm.ScanCode) *Error {
	return &Error{Code: code, Offset: offset, Scan: scan}
}
