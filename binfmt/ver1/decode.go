package ver1

import (
	"bytes"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Decode decodes a complete module image.
//
// With no features composed only the header is validated. The version word is
// not checked here; callers select this decoder by version first.
func (f *Format) Decode(data []byte) (*Module, error) {
	m := f.NewModule(data)

	if len(data) < wasm.HeaderSize || !bytes.Equal(data[:4], wasm.MagicBytes[:]) {
		return nil, errors.Fault(errors.CodeIllegalWasmFileFormat, 0)
	}
	if len(f.features) == 0 || len(data) == wasm.HeaderSize {
		return m, nil
	}

	curr := wasm.HeaderSize
	end := len(data)
	var maxSectionID byte

	for curr != end {
		idOffset := curr
		id := data[curr]
		curr++

		if id != wasm.SectionCustom {
			if id < maxSectionID {
				return nil, errors.New(errors.CodeInvalidSectionCanonicalOrder, idOffset).U8Pair(maxSectionID, id).Build()
			}
			maxSectionID = id
		}

		secLen, next, code := wasm.DecodeU32(data, curr)
		if code != wasm.ScanOK {
			return nil, errors.ScanFault(errors.CodeInvalidSectionLength, curr, code)
		}
		if uint64(secLen) > math.MaxInt {
			return nil, errors.New(errors.CodeSizeExceedsMaxSizeT, curr).U64(uint64(secLen)).Build()
		}
		curr = next

		if end-curr < int(secLen) {
			return nil, errors.New(errors.CodeIllegalSectionLength, curr).U32(secLen).Build()
		}
		span := SectionSpan{Begin: curr, End: curr + int(secLen)}

		start := time.Now()
		if err := f.DecodeSection(m, id, span, idOffset); err != nil {
			return nil, err
		}
		if ce := Logger().Check(zap.DebugLevel, "decoded section"); ce != nil {
			ce.Write(
				zap.Uint8("section_id", id),
				zap.String("section_name", f.SectionName(id)),
				zap.Int("offset", idOffset),
				zap.Int("length", int(secLen)),
				zap.Duration("elapsed", time.Since(start)),
			)
		}

		// sub-decoders own their range; the loop does not re-verify consumption
		curr = span.End
	}

	for _, fc := range f.finals {
		if err := fc.FinalCheck(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// DecodeSpan decodes the image held in data[begin:end]. Offsets in faults and
// decoded views are relative to begin.
func (f *Format) DecodeSpan(data []byte, begin, end int) (*Module, error) {
	if begin < 0 || end > len(data) || begin > end {
		return nil, errors.Fault(errors.CodeIllegalBeginPointer, begin)
	}
	return f.Decode(data[begin:end:end])
}

// DecodeSection dispatches one section payload to the storage registered for id.
func (f *Format) DecodeSection(m *Module, id byte, span SectionSpan, idOffset int) error {
	s := m.Section(id)
	if s == nil {
		return errors.New(errors.CodeIllegalSectionID, idOffset).U8(id).Build()
	}
	return s.Decode(m, span, idOffset)
}
