// Package fault reports linear memory access violations.
//
// A violation means an access slipped past instruction-level validation, so
// it is never returned to the caller: the record is reported and the process
// terminates. Tests swap the terminator to observe faults in-process.
package fault

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// ExitCode is the process status used by the default terminator.
const ExitCode = 3

// Record describes one out-of-bounds access.
//
// Offset is the low 64 bits of static + dynamic offset; Offset65Bit is set when
// the sum carried into bit 64, which only wasm64 memories can produce.
type Record struct {
	MemoryIdx    int
	Offset       uint64
	Offset65Bit  bool
	StaticOffset uint64
	Length       uint64
	TypeSize     uint64
}

// DynamicOffset recovers the dynamic part of the offset. The subtraction wraps,
// which also yields the right value when Offset65Bit is set.
func (r Record) DynamicOffset() uint64 {
	return r.Offset - r.StaticOffset
}

// String formats the record the way Report prints it, without the prefix.
func (r Record) String() string {
	return fmt.Sprintf("memory[%d] access overflow: %s (static) + %s (dynamic) + %d (bytes) > %s (allocated)",
		r.MemoryIdx, addr(r.StaticOffset), addr(r.DynamicOffset()), r.TypeSize, addr(r.Length))
}

func addr(v uint64) string { return fmt.Sprintf("0x%016x", v) }

// Terminator ends the process after a fault has been reported. It must not return.
type Terminator func(Record)

var (
	mu         sync.Mutex
	output     io.Writer  = os.Stderr
	terminator Terminator = func(Record) { os.Exit(ExitCode) }
)

// SetTerminator replaces the terminator and returns a function restoring the previous one.
func SetTerminator(t Terminator) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := terminator
	terminator = t
	return func() {
		mu.Lock()
		defer mu.Unlock()
		terminator = prev
	}
}

// SetOutput replaces the report destination and returns a function restoring the previous one.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return func() {
		mu.Lock()
		defer mu.Unlock()
		output = prev
	}
}

// Report logs r and writes it to w.
func Report(w io.Writer, r Record) {
	Logger().Error("memory access overflow",
		zap.Int("memory_idx", r.MemoryIdx),
		zap.Uint64("offset", r.Offset),
		zap.Bool("offset_65_bit", r.Offset65Bit),
		zap.Uint64("static_offset", r.StaticOffset),
		zap.Uint64("dynamic_offset", r.DynamicOffset()),
		zap.Uint64("length", r.Length),
		zap.Uint64("type_size", r.TypeSize),
	)
	fmt.Fprintf(w, "wasm-binfmt: [fatal] %s\n\n", r)
}

// ReportAndTerminate reports r and ends the process. It never returns: if the
// installed terminator returns, ReportAndTerminate panics with r.
func ReportAndTerminate(r Record) {
	mu.Lock()
	w, t := output, terminator
	mu.Unlock()

	Report(w, r)
	t(r)
	panic(r)
}
