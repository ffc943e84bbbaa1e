package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// TypeSection holds the function signatures of a module (id 1).
type TypeSection struct {
	ver1.SectionState
	Types []wasm.FunctionType
}

func (*TypeSection) ID() byte     { return wasm.SectionType }
func (*TypeSection) Name() string { return "Type" }

// Decode decodes the type vector. Entries are validated as they are read, and
// the number of decoded entries must equal the declared count.
func (s *TypeSection) Decode(m *ver1.Module, span ver1.SectionSpan, idOffset int) error {
	if !s.Claim(span) {
		return duplicate(wasm.SectionType, idOffset)
	}
	p := m.Params()
	c := newCursor(m, span)

	count, err := c.count(errors.CodeInvalidTypeCount, p.Limits.MaxTypes)
	if err != nil {
		return err
	}
	s.Types = make([]wasm.FunctionType, 0, count)

	var resolved uint32
	for !c.done() {
		prefixAt := c.pos
		if resolved++; resolved > count {
			return errors.New(errors.CodeTypeSectionResolvedExceeded, prefixAt).U32(count).Build()
		}
		prefix := c.data[c.pos]
		c.pos++
		switch prefix {
		case wasm.FuncTypePrefix:
			ft, err := decodeFunctionType(c, p)
			if err != nil {
				return err
			}
			s.Types = append(s.Types, ft)
		default:
			return errors.New(errors.CodeIllegalTypePrefix, prefixAt).U8(prefix).Build()
		}
	}

	if resolved != count {
		return errors.New(errors.CodeTypeSectionResolvedNotMatch, c.pos).U32Pair(resolved, count).Build()
	}
	return nil
}

func decodeFunctionType(c *cursor, p *ver1.Params) (wasm.FunctionType, error) {
	var ft wasm.FunctionType

	paramLen, err := c.length(errors.CodeInvalidParameterLength)
	if err != nil {
		return ft, err
	}
	// one byte stays reserved for the result count
	if c.remaining() <= paramLen {
		return ft, errors.New(errors.CodeIllegalParameterLength, c.pos).U32(uint32(paramLen)).Build()
	}
	ft.Parameter = wasm.ValueTypeSpan{Bytes: c.data[c.pos : c.pos+paramLen : c.pos+paramLen], Offset: c.pos}
	if err := checkValueTypes(ft.Parameter, p); err != nil {
		return ft, err
	}
	c.pos += paramLen

	resultLen, err := c.length(errors.CodeInvalidResultLength)
	if err != nil {
		return ft, err
	}
	if !p.AllowMultiValue && resultLen > 1 {
		return ft, errors.New(errors.CodeWasm1NotAllowMultiValue, c.pos).U32(uint32(resultLen)).Build()
	}
	if c.remaining() < resultLen {
		return ft, errors.New(errors.CodeIllegalResultLength, c.pos).U32(uint32(resultLen)).Build()
	}
	ft.Result = wasm.ValueTypeSpan{Bytes: c.data[c.pos : c.pos+resultLen : c.pos+resultLen], Offset: c.pos}
	if err := checkValueTypes(ft.Result, p); err != nil {
		return ft, err
	}
	c.pos += resultLen

	return ft, nil
}

func checkValueTypes(span wasm.ValueTypeSpan, p *ver1.Params) error {
	for i, b := range span.Bytes {
		if !p.ValidValueType(b) {
			return errors.New(errors.CodeIllegalValueType, span.Offset+i).U8(b).Build()
		}
	}
	return nil
}
