package wasip1_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/sys"

	"github.com/wippyai/wasm-binfmt/memory/fault"
	"github.com/wippyai/wasm-binfmt/memory/linear"
	"github.com/wippyai/wasm-binfmt/wasip1"
	"github.com/wippyai/wasm-binfmt/wasip1/memory"
	"github.com/wippyai/wasm-binfmt/wasm"
)

func newMemory(t *testing.T) *linear.Allocator {
	t.Helper()
	mem, err := linear.NewAllocator(linear.AllocatorConfig{PageSize: 1024, InitPages: 1})
	require.NoError(t, err)
	return mem
}

func TestArgs(t *testing.T) {
	env := wasip1.NewEnvironment([]string{"prog", "-v"}, nil)
	mem := newMemory(t)

	require.Equal(t, wasip1.ESUCCESS, wasip1.ArgsSizesGet(env, mem, uint32(0), uint32(4)))
	require.Equal(t, uint32(2), memory.Get[uint32](mem, uint32(0)))
	require.Equal(t, uint32(8), memory.Get[uint32](mem, uint32(4)))

	require.Equal(t, wasip1.ESUCCESS, wasip1.ArgsGet(env, mem, uint32(16), uint32(64)))
	require.Equal(t, uint32(64), memory.Get[uint32](mem, uint32(16)))
	require.Equal(t, uint32(69), memory.Get[uint32](mem, uint32(20)))
	require.Equal(t, []byte("prog\x00-v\x00"), memory.Slice(mem, uint32(64), 8))
}

func TestEnviron_Wasm64(t *testing.T) {
	env := wasip1.NewEnvironment(nil, []string{"A=1", "HOME=/"})
	mem := newMemory(t)

	require.Equal(t, wasip1.ESUCCESS, wasip1.EnvironSizesGet(env, mem, uint64(0), uint64(8)))
	require.Equal(t, uint64(2), memory.Get[uint64](mem, uint64(0)))
	require.Equal(t, uint64(11), memory.Get[uint64](mem, uint64(8)))

	require.Equal(t, wasip1.ESUCCESS, wasip1.EnvironGet(env, mem, uint64(32), uint64(128)))
	require.Equal(t, uint64(128), memory.Get[uint64](mem, uint64(32)))
	require.Equal(t, uint64(132), memory.Get[uint64](mem, uint64(40)))
	require.Equal(t, []byte("A=1\x00HOME=/\x00"), memory.Slice(mem, uint64(128), 11))
}

func TestArgs_EmptyList(t *testing.T) {
	env := wasip1.NewEnvironment(nil, nil)
	mem := newMemory(t)
	memory.Store(mem, uint32(0), uint32(0xFFFFFFFF))

	require.Equal(t, wasip1.ESUCCESS, wasip1.ArgsSizesGet(env, mem, uint32(0), uint32(4)))
	require.Zero(t, memory.Get[uint32](mem, uint32(0)))
	require.Equal(t, wasip1.ESUCCESS, wasip1.ArgsGet(env, mem, uint32(math.MaxUint32), uint32(math.MaxUint32)))
}

func TestClockTimeGet(t *testing.T) {
	env := wasip1.NewEnvironment(nil, nil)
	env.Now = func() time.Time { return time.Unix(1700000000, 5) }
	mem := newMemory(t)

	require.Equal(t, wasip1.ESUCCESS, wasip1.ClockTimeGet(env, mem, wasip1.ClockRealtime, 1, uint32(8)))
	require.Equal(t, uint64(1700000000*1e9+5), memory.Get[uint64](mem, uint32(8)))

	require.Equal(t, wasip1.ESUCCESS, wasip1.ClockTimeGet(env, mem, wasip1.ClockMonotonic, 0, uint64(16)))
	first := memory.Get[uint64](mem, uint32(16))
	require.Equal(t, wasip1.ESUCCESS, wasip1.ClockTimeGet(env, mem, wasip1.ClockMonotonic, 0, uint64(16)))
	require.GreaterOrEqual(t, memory.Get[uint64](mem, uint32(16)), first)

	require.Equal(t, wasip1.ENOTSUP, wasip1.ClockTimeGet(env, mem, wasip1.ClockThreadCputimeID, 0, uint32(0)))
	require.Equal(t, wasip1.EINVAL, wasip1.ClockTimeGet(env, mem, 9, 0, uint32(0)))
}

func TestRandomGet(t *testing.T) {
	env := wasip1.NewEnvironment(nil, nil)
	env.Random = bytes.NewReader([]byte{1, 2, 3, 4, 5})
	mem := newMemory(t)

	require.Equal(t, wasip1.ESUCCESS, wasip1.RandomGet(env, mem, uint32(10), uint32(4)))
	require.Equal(t, []byte{1, 2, 3, 4}, memory.Slice(mem, uint32(10), 4))
	require.Equal(t, wasip1.EIO, wasip1.RandomGet(env, mem, uint32(10), uint32(4)))

	env.Random = nil
	require.Equal(t, wasip1.ENOSYS, wasip1.RandomGet(env, mem, uint32(10), uint32(4)))
}

func TestPrestat(t *testing.T) {
	env := wasip1.NewEnvironment(nil, nil)
	env.MountRoots = []wasip1.MountRoot{{Guest: "/data", Host: t.TempDir()}}
	mem := newMemory(t)
	memory.WriteAll(mem, uint32(0), bytes.Repeat([]byte{0xEE}, 16))

	require.Equal(t, wasip1.ESUCCESS, wasip1.FdPrestatGet(env, mem, wasip1.FirstPreopenFd, uint32(0)))
	require.Equal(t, uint8(wasip1.PreopenTypeDir), memory.Get[uint8](mem, uint32(0)))
	require.Equal(t, uint32(5), memory.Get[uint32](mem, uint32(4)))

	require.Equal(t, wasip1.ESUCCESS, wasip1.FdPrestatGet(env, mem, wasip1.FirstPreopenFd, uint64(16)))
	require.Equal(t, uint64(5), memory.Get[uint64](mem, uint64(24)))

	require.Equal(t, wasip1.EBADF, wasip1.FdPrestatGet(env, mem, 4, uint32(0)))
	require.Equal(t, wasip1.EBADF, wasip1.FdPrestatGet(env, mem, 2, uint32(0)))
	require.Equal(t, wasip1.EFAULT, wasip1.FdPrestatGet(env, mem, wasip1.FirstPreopenFd, uint32(math.MaxUint32-2)))

	require.Equal(t, wasip1.ENAMETOOLONG, wasip1.FdPrestatDirName(env, mem, wasip1.FirstPreopenFd, uint32(64), uint32(4)))
	require.Equal(t, wasip1.ESUCCESS, wasip1.FdPrestatDirName(env, mem, wasip1.FirstPreopenFd, uint32(64), uint32(5)))
	require.Equal(t, []byte("/data"), memory.Slice(mem, uint32(64), 5))
	require.Equal(t, wasip1.EBADF, wasip1.FdPrestatDirName(env, mem, 7, uint32(64), uint32(5)))
}

func TestFdWrite(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := wasip1.NewEnvironment(nil, nil)
	env.Stdout, env.Stderr = &stdout, &stderr
	mem := newMemory(t)

	// wasm32 iovecs are {u32 buf, u32 len}
	memory.WriteAll(mem, uint32(100), []byte("hello world"))
	memory.Store(mem, uint32(0), uint32(100))
	memory.Store(mem, uint32(4), uint32(5))
	memory.Store(mem, uint32(8), uint32(105))
	memory.Store(mem, uint32(12), uint32(6))
	require.Equal(t, wasip1.ESUCCESS, wasip1.FdWrite(env, mem, 1, uint32(0), uint32(2), uint32(200)))
	require.Equal(t, "hello world", stdout.String())
	require.Equal(t, uint32(11), memory.Get[uint32](mem, uint32(200)))

	// wasm64 iovecs are {u64 buf, u64 len}
	memory.Store(mem, uint64(16), uint64(100))
	memory.Store(mem, uint64(24), uint64(5))
	require.Equal(t, wasip1.ESUCCESS, wasip1.FdWrite(env, mem, 2, uint64(16), uint64(1), uint64(208)))
	require.Equal(t, "hello", stderr.String())
	require.Equal(t, uint64(5), memory.Get[uint64](mem, uint64(208)))

	require.Equal(t, wasip1.EBADF, wasip1.FdWrite(env, mem, 0, uint32(0), uint32(1), uint32(200)))
	require.Equal(t, wasip1.EBADF, wasip1.FdWrite(env, mem, 3, uint32(0), uint32(1), uint32(200)))

	env.Stdout = errWriter{}
	require.Equal(t, wasip1.EIO, wasip1.FdWrite(env, mem, 1, uint32(0), uint32(1), uint32(200)))
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestFdWrite_OutOfBounds(t *testing.T) {
	env := wasip1.NewEnvironment(nil, nil)
	env.Stdout = &bytes.Buffer{}
	mem := newMemory(t)
	memory.Store(mem, uint32(0), uint32(1000))
	memory.Store(mem, uint32(4), uint32(100))

	rec, faulted := fault.Capture(func() { wasip1.FdWrite(env, mem, 1, uint32(0), uint32(1), uint32(8)) })
	require.True(t, faulted)
	require.Equal(t, uint64(1000), rec.Offset)
	require.Equal(t, uint64(100), rec.TypeSize)
	require.Equal(t, uint64(1024), rec.Length)
}

func TestFdWrite_HugeIovecFaultsBeforeCopy(t *testing.T) {
	env := wasip1.NewEnvironment(nil, nil)
	var out bytes.Buffer
	env.Stdout = &out
	mem := newMemory(t)
	memory.Store(mem, uint32(0), uint32(0))
	memory.Store(mem, uint32(4), uint32(0x7FFFFFF0))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	rec, faulted := fault.Capture(func() { wasip1.FdWrite(env, mem, 1, uint32(0), uint32(1), uint32(8)) })
	runtime.ReadMemStats(&after)

	require.True(t, faulted)
	require.Equal(t, uint64(0), rec.Offset)
	require.Equal(t, uint64(0x7FFFFFF0), rec.TypeSize)
	require.Equal(t, uint64(1024), rec.Length)
	require.Zero(t, out.Len())
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestRandomGet_GuardedMmap(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("guard pages need a 64-bit host")
	}
	mem, err := linear.NewMmap(linear.MmapConfig{InitPages: 1})
	require.NoError(t, err)
	defer mem.Close()
	if mem.RequireDynamicLength() {
		t.Skip("no guard pages on this platform")
	}

	env := wasip1.NewEnvironment(nil, nil)
	env.Random = bytes.NewReader(make([]byte, 64))

	rec, faulted := fault.Capture(func() { wasip1.RandomGet(env, mem, uint32(2*linear.DefaultPageSize), uint32(16)) })
	require.True(t, faulted)
	require.Equal(t, uint64(2*linear.DefaultPageSize), rec.Offset)
	require.Equal(t, uint64(linear.DefaultPageSize), rec.Length)

	require.Equal(t, wasip1.ESUCCESS, wasip1.RandomGet(env, mem, uint32(linear.DefaultPageSize-16), uint32(16)))
}

func TestErrno(t *testing.T) {
	require.Equal(t, "EBADF", wasip1.EBADF.String())
	require.Equal(t, "errno(999)", wasip1.Errno(999).String())
	var err error = wasip1.ENOENT
	require.Equal(t, wasip1.ENOENT.String(), err.Error())
}

// guest imports fd_write and proc_exit. run writes the iovec at 0 to stdout
// and stores nwritten at 8. exit calls proc_exit(7).
func guest() []byte {
	i32 := wasm.ValI32
	init := []byte{
		16, 0, 0, 0, 5, 0, 0, 0, // iovec {16, 5}
		0, 0, 0, 0, 0, 0, 0, 0, // nwritten
		'h', 'e', 'l', 'l', 'o',
	}
	return wasm.NewBuilder().
		Types(
			wasm.Signature{Params: []wasm.ValueType{i32, i32, i32, i32}, Results: []wasm.ValueType{i32}},
			wasm.Signature{},
			wasm.Signature{Params: []wasm.ValueType{i32}},
		).
		Imports(
			wasm.ImportEntry{Module: wasip1.ModuleName, Name: "fd_write", Kind: wasm.KindFunc, TypeIndex: 0},
			wasm.ImportEntry{Module: wasip1.ModuleName, Name: "proc_exit", Kind: wasm.KindFunc, TypeIndex: 2},
		).
		Functions(1, 1).
		Memories(wasm.MemoryType{Limits: wasm.Limits{Min: 1}}).
		Exports(
			wasm.ExportEntry{Name: "memory", Kind: wasm.KindMemory},
			wasm.ExportEntry{Name: "run", Kind: wasm.KindFunc, Index: 2},
			wasm.ExportEntry{Name: "exit", Kind: wasm.KindFunc, Index: 3},
		).
		Code(
			wasm.Expr(nil).I32Const(1).I32Const(0).I32Const(1).I32Const(8).Call(0).Drop().End().Body(),
			wasm.Expr(nil).I32Const(7).Call(1).End().Body(),
		).
		Data(wasm.DataSegment{Init: init}).
		Bytes()
}

func TestInstantiate(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	var stdout strings.Builder
	env := wasip1.NewEnvironment(nil, nil)
	env.Stdout = &stdout

	host, err := wasip1.Instantiate(ctx, r, env)
	require.NoError(t, err)
	defer host.Close(ctx)

	mod, err := r.Instantiate(ctx, guest())
	require.NoError(t, err)

	_, err = mod.ExportedFunction("run").Call(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", stdout.String())

	n, ok := mod.Memory().ReadUint32Le(8)
	require.True(t, ok)
	require.Equal(t, uint32(5), n)

	_, err = mod.ExportedFunction("exit").Call(ctx)
	var exit *sys.ExitError
	require.ErrorAs(t, err, &exit)
	require.Equal(t, uint32(7), exit.ExitCode())
}
