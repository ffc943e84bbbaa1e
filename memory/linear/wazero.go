package linear

import (
	"github.com/tetratelabs/wazero/api"
)

// Wazero adapts the exported memory of a wazero module instance.
// wazero owns growth; bounds are always checked against the current size.
type Wazero struct {
	mem   api.Memory
	index int
}

// WrapWazero wraps mem. It returns nil when mem is nil, as for a module
// that exports no memory.
func WrapWazero(mem api.Memory, index int) *Wazero {
	if mem == nil {
		return nil
	}
	return &Wazero{mem: mem, index: index}
}

// Memory returns the wrapped wazero memory.
func (w *Wazero) Memory() api.Memory { return w.mem }

func (w *Wazero) Lock() Guard  { return Guard{} }
func (w *Wazero) Index() int   { return w.index }
func (w *Wazero) Length() uint { return uint(w.mem.Size()) }

// Bytes returns a view of the whole memory. wazero may replace the buffer on
// growth, so the view must not be kept across guest calls.
func (w *Wazero) Bytes() []byte {
	b, _ := w.mem.Read(0, w.mem.Size())
	return b
}

// CheckBoundsUnlocked reports a fault unless n bytes at offset are in bounds.
func (w *Wazero) CheckBoundsUnlocked(offset, n uint) {
	length := uint64(w.mem.Size())
	if !InBounds(length, uint64(offset), uint64(n)) {
		outOfBounds(w.index, length, uint64(offset), uint64(n))
	}
}

// Grow extends the memory by delta pages and returns the previous page count.
func (w *Wazero) Grow(delta uint64) (old uint64, ok bool) {
	if delta > uint64(^uint32(0)) {
		return uint64(w.mem.Size()) / DefaultPageSize, false
	}
	prev, ok := w.mem.Grow(uint32(delta))
	return uint64(prev), ok
}
