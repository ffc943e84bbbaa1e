package wasip1

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-binfmt/memory/linear"
	"github.com/wippyai/wasm-binfmt/wasip1/memory"
)

// ModuleName is the import module guests use for Preview-1 calls.
const ModuleName = "wasi_snapshot_preview1"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

type call func(env *Environment, mem memory.Backend, stack []uint64) Errno

type hostFunc struct {
	name   string
	params []api.ValueType
	fn     call
}

func u32(v uint64) uint32 { return api.DecodeU32(v) }
func fd(v uint64) int32   { return api.DecodeI32(v) }

var wasm32Funcs = []hostFunc{
	{"args_sizes_get", []api.ValueType{i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return ArgsSizesGet(env, mem, u32(s[0]), u32(s[1]))
	}},
	{"args_get", []api.ValueType{i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return ArgsGet(env, mem, u32(s[0]), u32(s[1]))
	}},
	{"environ_sizes_get", []api.ValueType{i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return EnvironSizesGet(env, mem, u32(s[0]), u32(s[1]))
	}},
	{"environ_get", []api.ValueType{i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return EnvironGet(env, mem, u32(s[0]), u32(s[1]))
	}},
	{"clock_time_get", []api.ValueType{i32, i64, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return ClockTimeGet(env, mem, u32(s[0]), s[1], u32(s[2]))
	}},
	{"random_get", []api.ValueType{i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return RandomGet(env, mem, u32(s[0]), u32(s[1]))
	}},
	{"fd_prestat_get", []api.ValueType{i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return FdPrestatGet(env, mem, fd(s[0]), u32(s[1]))
	}},
	{"fd_prestat_dir_name", []api.ValueType{i32, i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return FdPrestatDirName(env, mem, fd(s[0]), u32(s[1]), u32(s[2]))
	}},
	{"fd_write", []api.ValueType{i32, i32, i32, i32}, func(env *Environment, mem memory.Backend, s []uint64) Errno {
		return FdWrite(env, mem, fd(s[0]), u32(s[1]), u32(s[2]), u32(s[3]))
	}},
}

func (h hostFunc) handler(env *Environment) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		errno := EFAULT
		if mem := linear.WrapWazero(mod.Memory(), 0); mem != nil {
			errno = h.fn(env, mem, stack)
		}
		if errno != ESUCCESS {
			Logger().Debug("host call failed",
				zap.String("func", h.name),
				zap.String("module", mod.Name()),
				zap.Stringer("errno", errno))
		}
		stack[0] = uint64(errno)
	}
}

func procExit(ctx context.Context, mod api.Module, stack []uint64) {
	code := u32(stack[0])
	Logger().Debug("proc_exit", zap.String("module", mod.Name()), zap.Uint32("code", code))
	_ = mod.CloseWithExitCode(ctx, code)
	panic(sys.NewExitError(code))
}

// Instantiate registers the wasm32 Preview-1 calls backed by env as the
// wasi_snapshot_preview1 module in r. Close the returned module to remove it.
func Instantiate(ctx context.Context, r wazero.Runtime, env *Environment) (api.Closer, error) {
	b := r.NewHostModuleBuilder(ModuleName)
	for _, h := range wasm32Funcs {
		b.NewFunctionBuilder().
			WithGoModuleFunction(h.handler(env), h.params, []api.ValueType{i32}).
			Export(h.name)
	}
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(procExit), []api.ValueType{i32}, nil).
		Export("proc_exit")

	mod, err := b.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	Logger().Debug("host module instantiated", zap.String("module", ModuleName), zap.Int("funcs", len(wasm32Funcs)+1))
	return mod, nil
}
