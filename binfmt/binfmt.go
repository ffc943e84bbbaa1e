// Package binfmt holds the version-independent parts of the binary module format:
// the module span every decoded view borrows from, and header inspection.
package binfmt

import (
	"bytes"
	"encoding/binary"

	"github.com/wippyai/wasm-binfmt/wasm"
)

// ModuleSpan is a non-owning view over a complete module image.
// Every structure decoded from the span borrows from Bytes and must not outlive it.
type ModuleSpan struct {
	Bytes []byte
}

// Begin is the offset of the first byte, always zero.
func (s ModuleSpan) Begin() int { return 0 }

// End is the offset one past the last byte.
func (s ModuleSpan) End() int { return len(s.Bytes) }

// Len returns the image size.
func (s ModuleSpan) Len() int { return len(s.Bytes) }

// Slice returns the bytes in [begin, end).
func (s ModuleSpan) Slice(begin, end int) []byte { return s.Bytes[begin:end:end] }

// IsWasmFile reports whether data starts with a complete header carrying the wasm magic.
func IsWasmFile(data []byte) bool {
	return len(data) >= wasm.HeaderSize && bytes.Equal(data[:4], wasm.MagicBytes[:])
}

// DetectVersion returns the little-endian version word of the header, or 0 when
// data is not a wasm file.
func DetectVersion(data []byte) uint32 {
	if !IsWasmFile(data) {
		return 0
	}
	return binary.LittleEndian.Uint32(data[4:8])
}
