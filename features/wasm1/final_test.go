package wasm1_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	binerr "github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/features/wasm1"
	"github.com/wippyai/wasm-binfmt/wasm"
)

var emptyBody = []byte{0x00, 0x0B}

func TestFullModule(t *testing.T) {
	data := wasm.NewBuilder().
		Types(wasm.Signature{}, wasm.Signature{Params: []wasm.ValueType{wasm.ValI32}, Results: []wasm.ValueType{wasm.ValI32}}).
		Imports(wasm.ImportEntry{Module: "env", Name: "id", TypeIndex: 1}).
		Functions(0, 1).
		Tables(wasm.TableType{Limits: wasm.Limits{Min: 1}}).
		Memories(wasm.MemoryType{Limits: wasm.Limits{Min: 1}}).
		Exports(
			wasm.ExportEntry{Name: "run", Kind: wasm.KindFunc, Index: 1},
			wasm.ExportEntry{Name: "memory", Kind: wasm.KindMemory},
			wasm.ExportEntry{Name: "table", Kind: wasm.KindTable},
		).
		Start(1).
		Code(emptyBody, []byte{0x00, 0x20, 0x00, 0x0B}).
		Bytes()

	m := mustDecode(t, format, data)
	compiles(t, data)

	exports := get[*wasm1.ExportSection](t, m)
	run, ok := exports.Lookup("run")
	if !ok || run.Kind != wasm.KindFunc || run.Index != 1 {
		t.Errorf("Lookup(run) = %+v, %v", run, ok)
	}
	if _, ok := exports.Lookup("missing"); ok {
		t.Error("Lookup(missing) = true")
	}

	if got := get[*wasm1.StartSection](t, m).FuncIndex; got != 1 {
		t.Errorf("start = %d, want 1", got)
	}
	if diff := cmp.Diff([]uint32{0, 1}, get[*wasm1.FunctionSection](t, m).TypeIndices); diff != "" {
		t.Errorf("type indices mismatch (-want +got):\n%s", diff)
	}

	want := wasm1.Spaces{Funcs: 3, Tables: 1, Memories: 1}
	if got := wasm1.IndexSpaces(m); got != want {
		t.Errorf("IndexSpaces() = %+v, want %+v", got, want)
	}
}

func TestOpaqueSections(t *testing.T) {
	global := append([]byte{0x01, byte(wasm.ValI32), wasm.GlobalConst}, wasm.Expr(nil).I32Const(42).End()...)
	data := wasm.NewBuilder().
		Memories(wasm.MemoryType{Limits: wasm.Limits{Min: 1}}).
		Raw(wasm.SectionGlobal, global).
		Exports(wasm.ExportEntry{Name: "answer", Kind: wasm.KindGlobal}).
		Data(wasm.DataSegment{Init: []byte("hi")}).
		Bytes()
	m := mustDecode(t, format, data)
	compiles(t, data)

	g := get[*wasm1.GlobalSection](t, m)
	if g.Count != 1 {
		t.Errorf("global Count = %d", g.Count)
	}
	if diff := cmp.Diff(global[1:], g.Payload); diff != "" {
		t.Errorf("global payload mismatch (-want +got):\n%s", diff)
	}
	if d := get[*wasm1.DataSection](t, m); d.Count != 1 || len(d.Payload) != 7 {
		t.Errorf("data = %d entries, %d bytes", d.Count, len(d.Payload))
	}
	if sp := wasm1.IndexSpaces(m); sp.Globals != 1 {
		t.Errorf("Globals = %d, want 1", sp.Globals)
	}
}

func TestFinalCheck(t *testing.T) {
	sig := wasm.Signature{}

	t.Run("missing bodies", func(t *testing.T) {
		data := wasm.NewBuilder().Types(sig).Functions(0).Bytes()
		fe := wantFault(t, format, data, binerr.CodeCodeNeDefinedFunc)
		if fe.Offset != 16 || fe.Selectable.U32Pair != [2]uint32{0, 1} {
			t.Errorf("fault = %v", fe)
		}
	})

	t.Run("bodies without functions", func(t *testing.T) {
		data := wasm.NewBuilder().Types(sig).Code(emptyBody).Bytes()
		fe := wantFault(t, format, data, binerr.CodeCodeNeDefinedFunc)
		if fe.Selectable.U32Pair != [2]uint32{1, 0} {
			t.Errorf("U32Pair = %v", fe.Selectable.U32Pair)
		}
	})

	t.Run("start out of range", func(t *testing.T) {
		data := wasm.NewBuilder().Types(sig).Functions(0).Start(1).Code(emptyBody).Bytes()
		fe := wantFault(t, format, data, binerr.CodeIllegalStartIndex)
		if fe.Selectable.U32 != 1 {
			t.Errorf("U32 = %d", fe.Selectable.U32)
		}
	})

	t.Run("export out of range", func(t *testing.T) {
		data := wasm.NewBuilder().Exports(wasm.ExportEntry{Name: "mem", Kind: wasm.KindMemory}).Bytes()
		fe := wantFault(t, format, data, binerr.CodeIllegalExportIndex)
		if fe.Offset != 11 {
			t.Errorf("Offset = %d, want 11", fe.Offset)
		}
	})

	t.Run("two memories", func(t *testing.T) {
		mem := wasm.MemoryType{Limits: wasm.Limits{Min: 1}}
		data := wasm.NewBuilder().Memories(mem, mem).Bytes()
		fe := wantFault(t, format, data, binerr.CodeWasm1MultipleMemories)
		if fe.Selectable.U64 != 2 {
			t.Errorf("U64 = %d", fe.Selectable.U64)
		}
	})

	t.Run("imported and defined table", func(t *testing.T) {
		tt := wasm.TableType{Limits: wasm.Limits{Min: 1}}
		data := wasm.NewBuilder().
			Types().
			Imports(wasm.ImportEntry{Module: "env", Name: "t", Kind: wasm.KindTable, Table: tt}).
			Tables(tt).
			Bytes()
		wantFault(t, format, data, binerr.CodeWasm1MultipleTables)
	})
}

func TestExportSection_Faults(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		code binerr.Code
	}{
		{"duplicate name", []byte{0x02, 0x01, 'a', 0x02, 0x00, 0x01, 'a', 0x02, 0x00}, binerr.CodeDuplicateExportName},
		{"bad kind", []byte{0x01, 0x01, 'a', 0x04, 0x00}, binerr.CodeIllegalExportKind},
		{"name too long", []byte{0x01, 0x04, 'a'}, binerr.CodeExportNameTooLength},
		{"truncated index", []byte{0x01, 0x01, 'a', 0x02, 0x80}, binerr.CodeInvalidExportIndex},
		{"more entries than declared", []byte{0x00, 0x01, 'a', 0x02, 0x00}, binerr.CodeExportSectionResolvedNotMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := wasm.NewBuilder().
				Memories(wasm.MemoryType{Limits: wasm.Limits{Min: 1}}).
				Raw(wasm.SectionExport, tt.body).
				Bytes()
			wantFault(t, format, data, tt.code)
		})
	}
}

func TestStartSection_Trailing(t *testing.T) {
	data := wasm.NewBuilder().
		Types(wasm.Signature{}).
		Functions(0).
		Raw(wasm.SectionStart, []byte{0x00, 0x00}).
		Code(emptyBody).
		Bytes()
	wantFault(t, format, data, binerr.CodeSectionNotFullyConsumed)
}
