package linear

import "fmt"

// AllocatorConfig configures NewAllocator.
type AllocatorConfig struct {
	// PageSize is the guest page size. Zero means DefaultPageSize.
	PageSize  uint64
	InitPages uint64
	// MaxPages caps growth. Zero means InitPages: the memory cannot grow.
	MaxPages uint64
	Index    int
}

// Allocator is a heap-backed linear memory. It has no guard pages and no
// atomics: every access is checked against the plain length, and the memory
// must not be shared between goroutines.
type Allocator struct {
	data     []byte
	pageSize uint64
	maxPages uint64
	index    int
}

// NewAllocator allocates a zeroed memory of InitPages pages.
func NewAllocator(cfg AllocatorConfig) (*Allocator, error) {
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if !checkPageSize(cfg.PageSize) {
		return nil, fmt.Errorf("page size %d is not a power of two up to %d", cfg.PageSize, DefaultPageSize)
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = cfg.InitPages
	}
	if cfg.InitPages > cfg.MaxPages {
		return nil, fmt.Errorf("initial pages %d exceed max pages %d", cfg.InitPages, cfg.MaxPages)
	}
	return &Allocator{
		data:     make([]byte, cfg.InitPages*cfg.PageSize),
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		index:    cfg.Index,
	}, nil
}

// NewAllocatorFrom wraps an existing buffer as a memory of exactly len(b) bytes.
func NewAllocatorFrom(b []byte, index int) *Allocator {
	return &Allocator{data: b, pageSize: 1, maxPages: uint64(len(b)), index: index}
}

func (a *Allocator) Lock() Guard      { return Guard{} }
func (a *Allocator) Index() int       { return a.index }
func (a *Allocator) Length() uint     { return uint(len(a.data)) }
func (a *Allocator) Bytes() []byte    { return a.data }
func (a *Allocator) Pages() uint64    { return uint64(len(a.data)) / a.pageSize }
func (a *Allocator) PageSize() uint64 { return a.pageSize }

// CheckBoundsUnlocked reports a fault unless n bytes at offset are in bounds.
func (a *Allocator) CheckBoundsUnlocked(offset, n uint) {
	length := uint64(len(a.data))
	if !InBounds(length, uint64(offset), uint64(n)) {
		outOfBounds(a.index, length, uint64(offset), uint64(n))
	}
}

// Grow extends the memory by delta zeroed pages and returns the previous page count.
// The buffer is reallocated, so slices from Bytes are stale afterwards.
func (a *Allocator) Grow(delta uint64) (old uint64, ok bool) {
	old = a.Pages()
	if delta > a.maxPages-old {
		return old, false
	}
	a.data = append(a.data, make([]byte, delta*a.pageSize)...)
	return old, true
}
