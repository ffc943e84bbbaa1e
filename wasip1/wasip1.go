// Package wasip1 implements a subset of the WASI Preview-1 host calls on top of
// the bounds-checked accessors in wasip1/memory.
//
// Every call is generic over the guest pointer width P: uint32 for wasm32
// guests and uint64 for wasm64 guests. Sizes stored into guest memory use the
// same width as pointers. Pointer arithmetic that leaves the guest address
// space yields EFAULT; accesses inside the address space but beyond the
// memory length are reported by the memory fault handler and never return.
package wasip1

import (
	"io"
	"math"

	"github.com/wippyai/wasm-binfmt/wasip1/memory"
)

// Pointer is a guest address width.
type Pointer interface {
	~uint32 | ~uint64
}

// Clock identifiers accepted by ClockTimeGet.
const (
	ClockRealtime         uint32 = 0
	ClockMonotonic        uint32 = 1
	ClockProcessCputimeID uint32 = 2
	ClockThreadCputimeID  uint32 = 3
)

// PreopenTypeDir is the prestat tag of a preopened directory.
const PreopenTypeDir uint8 = 0

func width[P Pointer]() uint64 {
	var p P
	if uint64(^p) == math.MaxUint32 {
		return 4
	}
	return 8
}

// add returns p+n, or false when the sum leaves the guest address space.
func add[P Pointer](p P, n uint64) (P, bool) {
	s := uint64(p) + n
	if s < n || s > uint64(^P(0)) {
		return 0, false
	}
	return P(s), true
}

// sizes returns the entry count and the total size of the NUL-terminated strings.
func sizes(list []string) (count, total uint64) {
	for _, s := range list {
		total += uint64(len(s)) + 1
	}
	return uint64(len(list)), total
}

func storeSizes[P Pointer](mem memory.Backend, list []string, countPtr, sizePtr P) Errno {
	count, total := sizes(list)
	if count > uint64(^P(0)) || total > uint64(^P(0)) {
		return EOVERFLOW
	}
	g := mem.Lock()
	defer g.Unlock()
	memory.StoreUnlocked(mem, countPtr, P(count))
	memory.StoreUnlocked(mem, sizePtr, P(total))
	return ESUCCESS
}

// storeStrings writes one pointer per entry at vec and the strings, each
// followed by NUL, packed from buf.
func storeStrings[P Pointer](mem memory.Backend, list []string, vec, buf P) Errno {
	g := mem.Lock()
	defer g.Unlock()
	w := width[P]()
	for _, s := range list {
		memory.StoreUnlocked(mem, vec, buf)
		memory.WriteAllUnlocked(mem, buf, append([]byte(s), 0))

		var ok bool
		if buf, ok = add(buf, uint64(len(s))+1); !ok {
			return EFAULT
		}
		if vec, ok = add(vec, w); !ok {
			return EFAULT
		}
	}
	return ESUCCESS
}

// ArgsSizesGet stores the argument count at argcPtr and the size of the
// argument string buffer at bufSizePtr.
func ArgsSizesGet[P Pointer](env *Environment, mem memory.Backend, argcPtr, bufSizePtr P) Errno {
	return storeSizes(mem, env.Args, argcPtr, bufSizePtr)
}

// ArgsGet stores the argument pointers at argv and the NUL-terminated
// arguments at argvBuf.
func ArgsGet[P Pointer](env *Environment, mem memory.Backend, argv, argvBuf P) Errno {
	return storeStrings(mem, env.Args, argv, argvBuf)
}

// EnvironSizesGet is ArgsSizesGet for the environment.
func EnvironSizesGet[P Pointer](env *Environment, mem memory.Backend, countPtr, bufSizePtr P) Errno {
	return storeSizes(mem, env.Environ, countPtr, bufSizePtr)
}

// EnvironGet is ArgsGet for the environment.
func EnvironGet[P Pointer](env *Environment, mem memory.Backend, environ, environBuf P) Errno {
	return storeStrings(mem, env.Environ, environ, environBuf)
}

// ClockTimeGet stores the time of clock id in nanoseconds at timePtr. The
// precision hint is ignored.
func ClockTimeGet[P Pointer](env *Environment, mem memory.Backend, id uint32, _ uint64, timePtr P) Errno {
	var ns uint64
	switch id {
	case ClockRealtime:
		ns = uint64(env.now().UnixNano())
	case ClockMonotonic:
		ns = env.monotonic()
	case ClockProcessCputimeID, ClockThreadCputimeID:
		return ENOTSUP
	default:
		return EINVAL
	}
	memory.Store(mem, timePtr, ns)
	return ESUCCESS
}

// RandomGet fills n bytes at buf from the environment's random source.
func RandomGet[P Pointer](env *Environment, mem memory.Backend, buf, n P) Errno {
	if env.Random == nil {
		return ENOSYS
	}
	b := memory.Slice(mem, buf, uint(n))
	if _, err := io.ReadFull(env.Random, b); err != nil {
		return EIO
	}
	return ESUCCESS
}

// FdPrestatGet describes the preopened directory fd. The prestat record is a
// one byte tag followed by the name length aligned to the pointer width.
func FdPrestatGet[P Pointer](env *Environment, mem memory.Backend, fd int32, buf P) Errno {
	root, ok := env.preopen(fd)
	if !ok {
		return EBADF
	}
	lenPtr, ok := add(buf, width[P]())
	if !ok {
		return EFAULT
	}
	if uint64(len(root.Guest)) > uint64(^P(0)) {
		return ENAMETOOLONG
	}
	g := mem.Lock()
	defer g.Unlock()
	memory.ClearUnlocked(mem, buf, uint(width[P]()))
	memory.StoreUnlocked(mem, buf, PreopenTypeDir)
	memory.StoreUnlocked(mem, lenPtr, P(len(root.Guest)))
	return ESUCCESS
}

// FdPrestatDirName writes the guest path of the preopened directory fd, without
// a terminating NUL.
func FdPrestatDirName[P Pointer](env *Environment, mem memory.Backend, fd int32, path, n P) Errno {
	root, ok := env.preopen(fd)
	if !ok {
		return EBADF
	}
	if uint64(n) < uint64(len(root.Guest)) {
		return ENAMETOOLONG
	}
	memory.WriteAll(mem, path, []byte(root.Guest))
	return ESUCCESS
}

// FdWrite gathers iovsLen iovecs at iovs and writes them to stdout (fd 1) or
// stderr (fd 2). An iovec is {buf P, len P}. The number of bytes written is
// stored at nwritten.
func FdWrite[P Pointer](env *Environment, mem memory.Backend, fd int32, iovs, iovsLen, nwritten P) Errno {
	w, ok := env.output(fd)
	if !ok {
		return EBADF
	}
	g := mem.Lock()
	defer g.Unlock()

	ps := width[P]()
	var total uint64
	for i := uint64(0); i < uint64(iovsLen); i++ {
		iov, ok := add(iovs, i*2*ps)
		if !ok {
			return EFAULT
		}
		lenPtr, ok := add(iov, ps)
		if !ok {
			return EFAULT
		}
		base := memory.GetUnlocked[P](mem, iov)
		size := memory.GetUnlocked[P](mem, lenPtr)
		if _, ok := add(base, uint64(size)); !ok {
			return EFAULT
		}
		n, err := w.Write(memory.SliceUnlocked(mem, base, uint(size)))
		total += uint64(n)
		if err != nil {
			return EIO
		}
	}
	if total > uint64(^P(0)) {
		return EOVERFLOW
	}
	memory.StoreUnlocked(mem, nwritten, P(total))
	return ESUCCESS
}
