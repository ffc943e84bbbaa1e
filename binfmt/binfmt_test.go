package binfmt_test

import (
	"testing"

	"github.com/wippyai/wasm-binfmt/binfmt"
	"github.com/wippyai/wasm-binfmt/wasm"
)

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
		wasm bool
	}{
		{"version 1", wasm.NewBuilder().Bytes(), 1, true},
		{"version 0x1000d", wasm.NewBuilder().Version(0x1000d).Bytes(), 0x1000d, true},
		{"short header", []byte{0x00, 0x61, 0x73, 0x6D, 0x01}, 0, false},
		{"bad magic", []byte{0x00, 0x61, 0x73, 0x6E, 0x01, 0, 0, 0}, 0, false},
		{"empty", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := binfmt.IsWasmFile(tt.data); got != tt.wasm {
				t.Errorf("IsWasmFile() = %v, want %v", got, tt.wasm)
			}
			if got := binfmt.DetectVersion(tt.data); got != tt.want {
				t.Errorf("DetectVersion() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestModuleSpan(t *testing.T) {
	s := binfmt.ModuleSpan{Bytes: []byte{1, 2, 3, 4}}
	if s.Begin() != 0 || s.End() != 4 || s.Len() != 4 {
		t.Fatalf("span = [%d, %d) len %d", s.Begin(), s.End(), s.Len())
	}
	sub := s.Slice(1, 3)
	if len(sub) != 2 || cap(sub) != 2 || sub[0] != 2 {
		t.Errorf("Slice(1, 3) = %v cap %d", sub, cap(sub))
	}
}
