package linear

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
)

// MmapConfig configures NewMmap.
type MmapConfig struct {
	// PageSize is the guest page size, a power of two up to 64 KiB.
	// Zero means DefaultPageSize.
	PageSize uint64
	// InitPages is the initial length in pages.
	InitPages uint64
	// MaxPages caps growth. Zero means the 4 GiB wasm32 range.
	MaxPages uint64
	// Index identifies the memory in fault reports.
	Index  int
	Status Status
}

// Mmap is a linear memory backed by reserved address space.
//
// The base address never changes. The live prefix is readable and writable;
// the rest of the reservation is inaccessible, so a stray access past the
// length faults in hardware instead of touching foreign memory.
//
// When the guest page size is smaller than the platform page, protection
// granularity cannot follow the length and every access is checked against
// the atomic length instead.
type Mmap struct {
	data      []byte
	length    atomic.Uint64
	growMu    sync.Mutex
	pageSize  uint64
	maxPages  uint64
	committed uint64
	// staticLimit and guard bound accesses that may skip the dynamic check.
	staticLimit uint64
	guard       uint64
	index       int
	status      Status
	dynamic     bool
	full        bool
}

// NewMmap reserves and initializes a memory.
func NewMmap(cfg MmapConfig) (*Mmap, error) {
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if !checkPageSize(cfg.PageSize) {
		return nil, fmt.Errorf("page size %d is not a power of two up to %d", cfg.PageSize, DefaultPageSize)
	}
	if cfg.Status != Wasm32 && cfg.Status != Wasm64 {
		return nil, fmt.Errorf("unknown memory status %d", cfg.Status)
	}
	wasm32Pages := (uint64(1) << 32) / cfg.PageSize
	if cfg.MaxPages == 0 {
		cfg.MaxPages = wasm32Pages
	}
	if cfg.Status == Wasm32 && cfg.MaxPages > wasm32Pages {
		return nil, fmt.Errorf("max pages %d exceed the wasm32 range", cfg.MaxPages)
	}
	if cfg.MaxPages > math.MaxUint64/cfg.PageSize {
		return nil, fmt.Errorf("max pages %d overflow the address space", cfg.MaxPages)
	}
	if cfg.InitPages > cfg.MaxPages {
		return nil, fmt.Errorf("initial pages %d exceed max pages %d", cfg.InitPages, cfg.MaxPages)
	}

	ps := uint64(platformPageSize())
	m := &Mmap{
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		index:    cfg.Index,
		status:   cfg.Status,
		dynamic:  !canGuard || cfg.PageSize < ps,
	}
	maxBytes := roundUp(cfg.MaxPages*cfg.PageSize, ps)

	var reserve uint64
	switch {
	case m.dynamic:
		reserve = maxBytes
	case cfg.Status == Wasm32 && strconv.IntSize == 64:
		m.full = true
		reserve = MaxFullProtectionWasm32Length
		m.staticLimit = math.MaxUint32
		m.guard = reserve - (uint64(1) << 32)
	default:
		limit := MaxPartialProtectionWasm32Length
		if cfg.Status == Wasm64 {
			limit = MaxPartialProtectionWasm64Length
		}
		m.guard = ps
		reserve = maxBytes + m.guard
		m.staticLimit = min(limit, maxBytes)
	}
	if reserve > math.MaxInt {
		return nil, fmt.Errorf("reservation of %d bytes exceeds the host address space", reserve)
	}

	data, err := reserveRegion(int(reserve))
	if err != nil {
		return nil, fmt.Errorf("reserve %d bytes: %w", reserve, err)
	}
	m.data = data

	if cfg.InitPages > 0 {
		if _, ok := m.grow(cfg.InitPages); !ok {
			_ = releaseRegion(data)
			return nil, fmt.Errorf("commit %d initial pages", cfg.InitPages)
		}
	}
	return m, nil
}

// Lock returns a no-op guard; reads race only with monotonic growth.
func (m *Mmap) Lock() Guard { return Guard{} }

// Index returns the memory index used in fault reports.
func (m *Mmap) Index() int { return m.index }

// Status returns the guest address width.
func (m *Mmap) Status() Status { return m.status }

// PageSize returns the guest page size.
func (m *Mmap) PageSize() uint64 { return m.pageSize }

// Length returns the current length in bytes.
func (m *Mmap) Length() uint { return uint(m.length.Load()) }

// Pages returns the current length in pages.
func (m *Mmap) Pages() uint64 { return m.length.Load() / m.pageSize }

// Bytes returns the whole reservation. Only the first Length bytes are accessible.
func (m *Mmap) Bytes() []byte { return m.data }

// RequireDynamicLength reports whether every access is checked against the length.
func (m *Mmap) RequireDynamicLength() bool { return m.dynamic }

// FullPageProtection reports whether the reservation covers every guest offset.
func (m *Mmap) FullPageProtection() bool { return m.full }

// CheckBoundsUnlocked reports a fault unless n bytes at offset may be accessed.
//
// With guard protection, offsets up to the static limit with accesses no wider
// than the guard skip the check: an overrun lands in inaccessible reserved
// space. Everything else is checked against the current length.
func (m *Mmap) CheckBoundsUnlocked(offset, n uint) {
	if !m.dynamic && uint64(offset) <= m.staticLimit && uint64(n) <= m.guard {
		return
	}
	length := m.length.Load()
	if !InBounds(length, uint64(offset), uint64(n)) {
		outOfBounds(m.index, length, uint64(offset), uint64(n))
	}
}

// Grow extends the memory by delta pages and returns the previous page count.
// Growth is serialized and monotonic; the new length is published after the
// pages become accessible.
func (m *Mmap) Grow(delta uint64) (old uint64, ok bool) {
	m.growMu.Lock()
	defer m.growMu.Unlock()
	return m.grow(delta)
}

func (m *Mmap) grow(delta uint64) (uint64, bool) {
	length := m.length.Load()
	old := length / m.pageSize
	if delta > m.maxPages-old {
		return old, false
	}
	newLength := length + delta*m.pageSize
	if commit := roundUp(newLength, uint64(platformPageSize())); commit > m.committed {
		if err := protectRegion(m.data[m.committed:commit]); err != nil {
			return old, false
		}
		m.committed = commit
	}
	m.length.Store(newLength)
	return old, true
}

// Close releases the reservation. The memory must not be used afterwards.
func (m *Mmap) Close() error {
	m.growMu.Lock()
	defer m.growMu.Unlock()
	if m.data == nil {
		return nil
	}
	err := releaseRegion(m.data)
	m.data = nil
	m.length.Store(0)
	return err
}
