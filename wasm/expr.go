package wasm

import "github.com/wippyai/wasm-binfmt/wasm/internal/binary"

// Opcodes emitted by Expr.
const (
	OpCall     byte = 0x10
	OpDrop     byte = 0x1A
	OpLocalGet byte = 0x20
	OpI32Const byte = 0x41
	OpEnd      byte = 0x0B
)

// Expr assembles an instruction sequence for a function body or a constant
// expression. Immediates are LEB128 encoded.
type Expr []byte

func (e Expr) I32Const(v int32) Expr    { return AppendS32(append(e, OpI32Const), v) }
func (e Expr) LocalGet(idx uint32) Expr { return AppendU32(append(e, OpLocalGet), idx) }
func (e Expr) Call(fn uint32) Expr      { return AppendU32(append(e, OpCall), fn) }
func (e Expr) Drop() Expr               { return append(e, OpDrop) }
func (e Expr) End() Expr                { return append(e, OpEnd) }

// Body returns e as a code entry without locals, ready for Builder.Code.
func (e Expr) Body() []byte {
	return append([]byte{0}, e...)
}

// DataSegment is an active data segment placed at a constant offset.
type DataSegment struct {
	Init   []byte
	Offset int32
	Memory uint32
}

// Data appends a data section.
func (b *Builder) Data(segs ...DataSegment) *Builder {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(segs)))
	for _, s := range segs {
		w.WriteU32(s.Memory)
		w.WriteBytes(Expr(nil).I32Const(s.Offset).End())
		w.WriteU32(uint32(len(s.Init)))
		w.WriteBytes(s.Init)
	}
	return b.Raw(SectionData, w.Bytes())
}
