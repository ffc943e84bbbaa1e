package wasm1

import (
	"math"

	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// cursor walks one section payload. data is cut at the section end so LEB128
// scans can never cross into the next section.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(m *ver1.Module, span ver1.SectionSpan) *cursor {
	return &cursor{data: m.Span.Bytes[:span.End], pos: span.Begin}
}

func (c *cursor) end() int       { return len(c.data) }
func (c *cursor) remaining() int { return len(c.data) - c.pos }
func (c *cursor) done() bool     { return c.pos == len(c.data) }

// u32 decodes a LEB128 value, reporting failures under code.
func (c *cursor) u32(code errors.Code) (uint32, error) {
	v, next, sc := wasm.DecodeU32(c.data, c.pos)
	if sc != wasm.ScanOK {
		return 0, errors.ScanFault(code, c.pos, sc)
	}
	c.pos = next
	return v, nil
}

// length decodes a LEB128 byte count that must fit the host int.
func (c *cursor) length(code errors.Code) (int, error) {
	at := c.pos
	v, err := c.u32(code)
	if err != nil {
		return 0, err
	}
	if uint64(v) > math.MaxInt {
		return 0, errors.New(errors.CodeSizeExceedsMaxSizeT, at).U64(uint64(v)).Build()
	}
	return int(v), nil
}

// count decodes a declared entry count and checks it against limit.
func (c *cursor) count(code errors.Code, limit uint32) (uint32, error) {
	at := c.pos
	n, err := c.u32(code)
	if err != nil {
		return 0, err
	}
	if limit != 0 && n > limit {
		return 0, errors.New(errors.CodeExceededParserLimit, at).U32Pair(n, limit).Build()
	}
	return n, nil
}

func (c *cursor) readByte(code errors.Code) (byte, error) {
	if c.pos >= len(c.data) {
		return 0, errors.New(code, c.pos).Scan(wasm.ScanEndOfFile).End(len(c.data)).Build()
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

type nameCodes struct {
	invalid errors.Code
	zero    errors.Code // CodeOK permits empty names
	tooLong errors.Code
}

var (
	importModuleNameCodes = nameCodes{errors.CodeInvalidImportModuleNameLength, errors.CodeImportModuleNameLengthZero, errors.CodeImportModuleNameTooLength}
	importExternNameCodes = nameCodes{errors.CodeInvalidImportExternNameLength, errors.CodeImportExternNameLengthZero, errors.CodeImportExternNameTooLength}
	exportNameCodes       = nameCodes{errors.CodeInvalidExportNameLength, errors.CodeOK, errors.CodeExportNameTooLength}
	customNameCodes       = nameCodes{errors.CodeInvalidCustomNameLength, errors.CodeOK, errors.CodeIllegalCustomNameLength}
)

// name decodes a length-prefixed UTF-8 name as a view into the module.
func (c *cursor) name(codes nameCodes) (wasm.Name, error) {
	at := c.pos
	n, err := c.length(codes.invalid)
	if err != nil {
		return wasm.Name{}, err
	}
	if n == 0 && codes.zero != errors.CodeOK {
		return wasm.Name{}, errors.Fault(codes.zero, at)
	}
	if c.remaining() < n {
		return wasm.Name{}, errors.New(codes.tooLong, c.pos).U32(uint32(n)).Build()
	}
	name := wasm.Name{Bytes: c.data[c.pos : c.pos+n : c.pos+n], Offset: c.pos}
	if !name.Valid() {
		return wasm.Name{}, errors.Fault(errors.CodeIllegalUTF8Name, c.pos)
	}
	c.pos += n
	return name, nil
}

func (c *cursor) limits() (wasm.Limits, error) {
	at := c.pos
	flag, err := c.readByte(errors.CodeInvalidLimits)
	if err != nil {
		return wasm.Limits{}, err
	}
	var l wasm.Limits
	switch flag {
	case wasm.LimitsMinOnly:
		if l.Min, err = c.u32(errors.CodeInvalidLimits); err != nil {
			return l, err
		}
	case wasm.LimitsMinMax:
		if l.Min, err = c.u32(errors.CodeInvalidLimits); err != nil {
			return l, err
		}
		if l.Max, err = c.u32(errors.CodeInvalidLimits); err != nil {
			return l, err
		}
		l.HasMax = true
		if l.Max < l.Min {
			return l, errors.New(errors.CodeIllegalLimitsRange, at).U32Pair(l.Min, l.Max).Build()
		}
	default:
		return l, errors.New(errors.CodeIllegalLimitsFlag, at).U8(flag).Build()
	}
	return l, nil
}

func (c *cursor) tableType() (wasm.TableType, error) {
	at := c.pos
	elem, err := c.readByte(errors.CodeNotEnoughSpace)
	if err != nil {
		return wasm.TableType{}, err
	}
	if elem != wasm.FuncRef {
		return wasm.TableType{}, errors.New(errors.CodeIllegalTableElementType, at).U8(elem).Build()
	}
	l, err := c.limits()
	if err != nil {
		return wasm.TableType{}, err
	}
	return wasm.TableType{ElemType: elem, Limits: l}, nil
}

func (c *cursor) memoryType() (wasm.MemoryType, error) {
	at := c.pos
	l, err := c.limits()
	if err != nil {
		return wasm.MemoryType{}, err
	}
	if l.Min > wasm.MaxMemoryPages || (l.HasMax && l.Max > wasm.MaxMemoryPages) {
		return wasm.MemoryType{}, errors.New(errors.CodeIllegalLimitsRange, at).U32Pair(l.Min, l.Max).Build()
	}
	return wasm.MemoryType{Limits: l}, nil
}

func (c *cursor) globalType(p *ver1.Params) (wasm.GlobalType, error) {
	at := c.pos
	vt, err := c.readByte(errors.CodeNotEnoughSpace)
	if err != nil {
		return wasm.GlobalType{}, err
	}
	if !p.ValidValueType(vt) {
		return wasm.GlobalType{}, errors.New(errors.CodeIllegalValueType, at).U8(vt).Build()
	}
	at = c.pos
	mut, err := c.readByte(errors.CodeNotEnoughSpace)
	if err != nil {
		return wasm.GlobalType{}, err
	}
	if mut != wasm.GlobalConst && mut != wasm.GlobalVar {
		return wasm.GlobalType{}, errors.New(errors.CodeIllegalGlobalMutability, at).U8(mut).Build()
	}
	return wasm.GlobalType{ValueType: wasm.ValueType(vt), Mutable: mut == wasm.GlobalVar}, nil
}

func duplicate(id byte, idOffset int) error {
	return errors.New(errors.CodeDuplicateSection, idOffset).U8(id).Build()
}

func trailing(c *cursor) error {
	if !c.done() {
		return errors.New(errors.CodeSectionNotFullyConsumed, c.pos).End(c.end()).Build()
	}
	return nil
}
