package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// LocalEntry declares Count locals of one type.
type LocalEntry struct {
	Count uint32
	Type  wasm.ValueType
}

// FunctionBody is one entry of the code section. Expr is the undecoded
// instruction sequence that follows the local declarations.
type FunctionBody struct {
	Locals []LocalEntry
	Expr   []byte
	Span   ver1.SectionSpan
}

// NumLocals returns the total number of declared locals.
func (b *FunctionBody) NumLocals() uint64 {
	var n uint64
	for _, l := range b.Locals {
		n += uint64(l.Count)
	}
	return n
}

// CodeSection holds the bodies of defined functions (id 10).
type CodeSection struct {
	ver1.SectionState
	Bodies []FunctionBody
}

func (*CodeSection) ID() byte     { return wasm.SectionCode }
func (*CodeSection) Name() string { return "Code" }

func (s *CodeSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionCode, idOffset)
	}
	p := m.Params()
	c := newCursor(m, span)
	count, err := c.count(errors.CodeInvalidCodeCount, p.Limits.MaxCodes)
	if err != nil {
		return err
	}
	s.Bodies = make([]FunctionBody, 0, count)

	for !c.done() {
		if uint32(len(s.Bodies)) == count {
			return errors.New(errors.CodeCodeSectionResolvedNotMatch, c.pos).U32Pair(count+1, count).Build()
		}
		size, err := c.length(errors.CodeInvalidBodySize)
		if err != nil {
			return err
		}
		if c.remaining() < size {
			return errors.New(errors.CodeIllegalBodySize, c.pos).U32(uint32(size)).Build()
		}
		body := FunctionBody{Span: ver1.SectionSpan{Begin: c.pos, End: c.pos + size}}
		if err := decodeLocals(&cursor{data: c.data[:body.Span.End], pos: c.pos}, &body, p); err != nil {
			return err
		}
		s.Bodies = append(s.Bodies, body)
		c.pos = body.Span.End
	}

	if n := uint32(len(s.Bodies)); n != count {
		return errors.New(errors.CodeCodeSectionResolvedNotMatch, c.pos).U32Pair(n, count).Build()
	}
	return nil
}

func decodeLocals(c *cursor, body *FunctionBody, p *ver1.Params) error {
	groups, err := c.u32(errors.CodeInvalidLocalCount)
	if err != nil {
		return err
	}
	var total uint64
	for i := uint32(0); i < groups; i++ {
		at := c.pos
		n, err := c.u32(errors.CodeInvalidLocalCount)
		if err != nil {
			return err
		}
		if total += uint64(n); total > uint64(p.Limits.MaxCodeLocals) {
			return errors.New(errors.CodeExceededParserLimit, at).U64(total).Build()
		}
		vtAt := c.pos
		vt, err := c.readByte(errors.CodeInvalidLocalCount)
		if err != nil {
			return err
		}
		if !p.ValidValueType(vt) {
			return errors.New(errors.CodeIllegalValueType, vtAt).U8(vt).Build()
		}
		body.Locals = append(body.Locals, LocalEntry{Count: n, Type: wasm.ValueType(vt)})
	}
	body.Expr = c.data[c.pos:len(c.data):len(c.data)]
	return nil
}
