// Package memory is the typed, bounds-checked view of guest memory used by
// WASI host calls.
//
// Every operation comes in three forms:
//
//	Op           takes the backend guard, checks bounds, then accesses memory
//	OpUnlocked   checks bounds; the caller already holds the guard
//	OpUnchecked  skips the check; the caller has proven the range some other way
//
// Offsets are guest values, uint32 for wasm32 and uint64 for wasm64. An offset
// that does not fit the host's native width is reported like any other
// out-of-bounds access. Out-of-bounds accesses never return.
package memory

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/wippyai/wasm-binfmt/memory/fault"
	"github.com/wippyai/wasm-binfmt/memory/linear"
)

// Backend is a linear memory the accessors can run against. The linear
// package provides Mmap, Allocator and Wazero.
type Backend interface {
	Lock() linear.Guard
	// CheckBoundsUnlocked must not return when n bytes at offset are out of bounds.
	CheckBoundsUnlocked(offset, n uint)
	Length() uint
	// Bytes returns memory starting at guest offset zero.
	Bytes() []byte
	Index() int
}

// Basic is a value type stored in guest memory as little-endian bytes.
type Basic interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

// Offset is a guest address.
type Offset interface {
	~uint32 | ~uint64
}

func sizeOf[T Basic]() uint {
	var v T
	return uint(unsafe.Sizeof(v))
}

// native converts a guest offset to a host offset, reporting offsets the host
// cannot address.
func native[O Offset](mem Backend, off O, n uint) uint {
	if uint64(off) > math.MaxUint {
		fault.ReportAndTerminate(fault.Record{
			MemoryIdx: mem.Index(),
			Offset:    uint64(off),
			Length:    uint64(mem.Length()),
			TypeSize:  uint64(n),
		})
	}
	return uint(off)
}

func load[T Basic](b []byte) T {
	var v T
	switch len(b) {
	case 1:
		u := b[0]
		v = *(*T)(unsafe.Pointer(&u))
	case 2:
		u := binary.LittleEndian.Uint16(b)
		v = *(*T)(unsafe.Pointer(&u))
	case 4:
		u := binary.LittleEndian.Uint32(b)
		v = *(*T)(unsafe.Pointer(&u))
	case 8:
		u := binary.LittleEndian.Uint64(b)
		v = *(*T)(unsafe.Pointer(&u))
	}
	return v
}

func put[T Basic](b []byte, v T) {
	switch len(b) {
	case 1:
		b[0] = *(*uint8)(unsafe.Pointer(&v))
	case 2:
		binary.LittleEndian.PutUint16(b, *(*uint16)(unsafe.Pointer(&v)))
	case 4:
		binary.LittleEndian.PutUint32(b, *(*uint32)(unsafe.Pointer(&v)))
	case 8:
		binary.LittleEndian.PutUint64(b, *(*uint64)(unsafe.Pointer(&v)))
	}
}

// Get reads a T at off.
func Get[T Basic, O Offset](mem Backend, off O) T {
	defer mem.Lock().Unlock()
	return GetUnlocked[T](mem, off)
}

// GetUnlocked is Get for callers holding the guard.
func GetUnlocked[T Basic, O Offset](mem Backend, off O) T {
	n := sizeOf[T]()
	o := native(mem, off, n)
	mem.CheckBoundsUnlocked(o, n)
	return load[T](mem.Bytes()[o : o+n])
}

// GetUnchecked reads a T at off without a bounds check.
func GetUnchecked[T Basic, O Offset](mem Backend, off O) T {
	n := sizeOf[T]()
	o := uint(off)
	return load[T](mem.Bytes()[o : o+n])
}

// Store writes v at off.
func Store[T Basic, O Offset](mem Backend, off O, v T) {
	defer mem.Lock().Unlock()
	StoreUnlocked(mem, off, v)
}

// StoreUnlocked is Store for callers holding the guard.
func StoreUnlocked[T Basic, O Offset](mem Backend, off O, v T) {
	n := sizeOf[T]()
	o := native(mem, off, n)
	mem.CheckBoundsUnlocked(o, n)
	put(mem.Bytes()[o:o+n], v)
}

// StoreUnchecked writes v at off without a bounds check.
func StoreUnchecked[T Basic, O Offset](mem Backend, off O, v T) {
	n := sizeOf[T]()
	o := uint(off)
	put(mem.Bytes()[o:o+n], v)
}

// ReadAll copies len(dst) bytes at off into dst. The whole range is checked once.
func ReadAll[O Offset](mem Backend, off O, dst []byte) {
	defer mem.Lock().Unlock()
	ReadAllUnlocked(mem, off, dst)
}

// ReadAllUnlocked is ReadAll for callers holding the guard.
func ReadAllUnlocked[O Offset](mem Backend, off O, dst []byte) {
	n := uint(len(dst))
	o := native(mem, off, n)
	mem.CheckBoundsUnlocked(o, n)
	copy(dst, mem.Bytes()[o:o+n])
}

// ReadAllUnchecked copies without a bounds check.
func ReadAllUnchecked[O Offset](mem Backend, off O, dst []byte) {
	o := uint(off)
	copy(dst, mem.Bytes()[o:o+uint(len(dst))])
}

// WriteAll copies src into memory at off. The whole range is checked once.
func WriteAll[O Offset](mem Backend, off O, src []byte) {
	defer mem.Lock().Unlock()
	WriteAllUnlocked(mem, off, src)
}

// WriteAllUnlocked is WriteAll for callers holding the guard.
func WriteAllUnlocked[O Offset](mem Backend, off O, src []byte) {
	n := uint(len(src))
	o := native(mem, off, n)
	mem.CheckBoundsUnlocked(o, n)
	copy(mem.Bytes()[o:o+n], src)
}

// WriteAllUnchecked copies without a bounds check.
func WriteAllUnchecked[O Offset](mem Backend, off O, src []byte) {
	o := uint(off)
	copy(mem.Bytes()[o:o+uint(len(src))], src)
}

// Clear zeroes size bytes at off.
func Clear[O Offset](mem Backend, off O, size uint) {
	defer mem.Lock().Unlock()
	ClearUnlocked(mem, off, size)
}

// ClearUnlocked is Clear for callers holding the guard.
func ClearUnlocked[O Offset](mem Backend, off O, size uint) {
	o := native(mem, off, size)
	mem.CheckBoundsUnlocked(o, size)
	clear(mem.Bytes()[o : o+size])
}

// ClearUnchecked zeroes without a bounds check.
func ClearUnchecked[O Offset](mem Backend, off O, size uint) {
	o := uint(off)
	clear(mem.Bytes()[o : o+size])
}

// Slice returns a view of n bytes at off after one bounds check. The view is
// valid until the memory grows.
func Slice[O Offset](mem Backend, off O, n uint) []byte {
	defer mem.Lock().Unlock()
	return SliceUnlocked(mem, off, n)
}

// SliceUnlocked is Slice for callers holding the guard.
//
// The range is always checked against the current length. A view handed to a
// syscall that overruns into guard pages gets an errno back, not a trap.
func SliceUnlocked[O Offset](mem Backend, off O, n uint) []byte {
	o := native(mem, off, n)
	length := uint64(mem.Length())
	if !linear.InBounds(length, uint64(o), uint64(n)) {
		fault.ReportAndTerminate(fault.Record{
			MemoryIdx: mem.Index(),
			Offset:    uint64(o),
			Length:    length,
			TypeSize:  uint64(n),
		})
	}
	return mem.Bytes()[o : o+n : o+n]
}
