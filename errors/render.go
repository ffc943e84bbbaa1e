package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Report is a presentation-neutral rendering of a parse fault.
type Report struct {
	Code    string
	Message string
	Detail  string
	Context string
	Offset  int
}

// Explain turns err into a Report. module is the image the fault offset refers to
// and may be nil, in which case no byte context is produced.
func Explain(err error, module []byte) (Report, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return Report{}, false
	}
	r := Report{
		Code:    e.Code.String(),
		Message: e.Code.Message(),
		Offset:  e.Offset,
		Detail:  detail(e),
	}
	if module != nil {
		r.Context = hexContext(module, e.Offset)
	}
	return r, true
}

func detail(e *Error) string {
	s := e.Selectable
	switch s.Kind {
	case SelectU8:
		return fmt.Sprintf("offending byte 0x%02x", s.U8)
	case SelectU8Pair:
		return fmt.Sprintf("section %d must precede section %d", s.U8Pair[0], s.U8Pair[1])
	case SelectU32:
		return fmt.Sprintf("value %d", s.U32)
	case SelectU32Pair:
		return fmt.Sprintf("resolved %d, declared %d", s.U32Pair[0], s.U32Pair[1])
	case SelectU64:
		return fmt.Sprintf("value %d", s.U64)
	case SelectEnd:
		return fmt.Sprintf("range ends at 0x%x", s.End)
	}
	if cause := e.Unwrap(); cause != nil {
		return cause.Error()
	}
	return ""
}

// hexContext dumps up to 8 bytes on each side of offset, marking the faulting byte.
func hexContext(module []byte, offset int) string {
	if offset < 0 || offset > len(module) {
		return ""
	}
	lo := max(offset-8, 0)
	hi := min(offset+8, len(module))
	var b strings.Builder
	fmt.Fprintf(&b, "%08x:", lo)
	for i := lo; i < hi; i++ {
		if i == offset {
			fmt.Fprintf(&b, " [%02x]", module[i])
		} else {
			fmt.Fprintf(&b, " %02x", module[i])
		}
	}
	if offset == len(module) {
		b.WriteString(" [EOF]")
	}
	return b.String()
}
