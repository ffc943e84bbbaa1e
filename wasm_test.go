package wasmbinfmt_test

import (
	"errors"
	"testing"

	wasmbinfmt "github.com/wippyai/wasm-binfmt"
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	binerr "github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/features/multivalue"
	"github.com/wippyai/wasm-binfmt/features/wasm1"
	"github.com/wippyai/wasm-binfmt/wasm"
)

func TestParse(t *testing.T) {
	data := wasm.NewBuilder().Types(wasm.Signature{Results: []wasm.ValueType{wasm.ValI32, wasm.ValI32}}).Bytes()

	if _, err := wasmbinfmt.Parse(data, wasm1.Feature()); binerr.CodeOf(err) != binerr.CodeWasm1NotAllowMultiValue {
		t.Errorf("Parse(wasm1) error = %v", err)
	}

	m, err := wasmbinfmt.Parse(data, wasm1.Feature(), multivalue.Feature())
	if err != nil {
		t.Fatalf("Parse(wasm1, multi-value) error = %v", err)
	}
	if types, ok := ver1.Get[*wasm1.TypeSection](m); !ok || len(types.Types) != 1 {
		t.Errorf("type section = %v, %v", types, ok)
	}
}

func TestParse_Version(t *testing.T) {
	for _, v := range []uint32{0, 2, 0x1000d} {
		data := wasm.NewBuilder().Version(v).Bytes()
		_, err := wasmbinfmt.Parse(data, wasm1.Feature())

		var fe *binerr.Error
		if !errors.As(err, &fe) {
			t.Fatalf("Parse(version %d) error = %v", v, err)
		}
		if fe.Code != binerr.CodeIllegalWasmFileFormat || fe.Offset != 4 || fe.Selectable.U32 != v {
			t.Errorf("Parse(version %d) = %v", v, fe)
		}
	}
}

func TestParse_NotWasm(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("\x00asm"), []byte("\x7fELF\x02\x01\x01\x00")} {
		if _, err := wasmbinfmt.Parse(data); binerr.CodeOf(err) != binerr.CodeIllegalWasmFileFormat {
			t.Errorf("Parse(%q) error = %v", data, err)
		}
	}
}

func TestParse_ComposeError(t *testing.T) {
	_, err := wasmbinfmt.Parse(wasm.NewBuilder().Bytes(), wasm1.Feature(), wasm1.Feature())
	if err == nil {
		t.Fatal("Parse with duplicated feature succeeded")
	}
	if binerr.CodeOf(err) != binerr.CodeOK {
		t.Errorf("composition error carries a fault code: %v", err)
	}
}
