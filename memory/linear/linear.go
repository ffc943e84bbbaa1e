// Package linear provides the linear memory backends guest memory accessors
// run against.
//
// Three backends are provided:
//
//	Mmap       address space reserved up front; the base never moves and the
//	           length is an atomic cell, so host calls may read while another
//	           goroutine grows the memory
//	Allocator  a plain heap buffer for single-threaded, fixed-capacity memories
//	Wazero     an adapter over a wazero instance's exported memory
//
// Every backend funnels bounds checks through CheckBoundsUnlocked, which
// reports a violation through memory/fault and never returns in that case.
package linear

import (
	"sync"

	"github.com/wippyai/wasm-binfmt/memory/fault"
)

// DefaultPageSize is the WebAssembly page size.
const DefaultPageSize = 65536

// Guard protection limits.
const (
	// MaxFullProtectionWasm32Length is the reservation that makes every wasm32
	// offset plus any typed access land inside reserved address space.
	MaxFullProtectionWasm32Length uint64 = 1 << 33
	// MaxPartialProtectionWasm32Length bounds wasm32 offsets that skip the
	// dynamic check when full protection is not available.
	MaxPartialProtectionWasm32Length uint64 = 1 << 28
	// MaxPartialProtectionWasm64Length bounds wasm64 offsets that skip the
	// dynamic check.
	MaxPartialProtectionWasm64Length uint64 = 1 << 48
)

// Status is the guest address width of a memory.
type Status uint8

const (
	Wasm32 Status = iota
	Wasm64
)

func (s Status) String() string {
	switch s {
	case Wasm32:
		return "wasm32"
	case Wasm64:
		return "wasm64"
	default:
		return "unknown"
	}
}

// Guard is returned by Lock. The backends here do not lock and return an empty
// guard; a backend that allows shrinking or relocation would carry its lock.
type Guard struct {
	l sync.Locker
}

// LockedGuard locks l and returns a guard that unlocks it.
func LockedGuard(l sync.Locker) Guard {
	l.Lock()
	return Guard{l: l}
}

// Unlock releases the guard.
func (g Guard) Unlock() {
	if g.l != nil {
		g.l.Unlock()
	}
}

// InBounds reports whether n bytes at offset fit a memory of length bytes.
// The form avoids computing offset+n.
func InBounds(length, offset, n uint64) bool {
	return n <= length && offset <= length-n
}

func outOfBounds(index int, length, offset, n uint64) {
	fault.ReportAndTerminate(fault.Record{
		MemoryIdx: index,
		Offset:    offset,
		Length:    length,
		TypeSize:  n,
	})
}

func checkPageSize(pageSize uint64) bool {
	return pageSize != 0 && pageSize <= DefaultPageSize && pageSize&(pageSize-1) == 0
}

func roundUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
