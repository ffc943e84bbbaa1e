package wasm

// ScanCode classifies the outcome of a primitive scan over module bytes.
type ScanCode uint8

const (
	ScanOK ScanCode = iota
	// ScanEndOfFile means the buffer ended before the value was terminated.
	ScanEndOfFile
	// ScanInvalid means the bytes can never form a valid value.
	ScanInvalid
	// ScanOverflow means the value does not fit the target width.
	ScanOverflow
)

func (c ScanCode) String() string {
	switch c {
	case ScanOK:
		return "ok"
	case ScanEndOfFile:
		return "end_of_file"
	case ScanInvalid:
		return "invalid"
	case ScanOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// DecodeU32 decodes an unsigned LEB128 value starting at buf[pos].
// It never reads past len(buf); next is the position after the last consumed byte.
func DecodeU32(buf []byte, pos int) (v uint32, next int, code ScanCode) {
	var shift uint
	for i := pos; ; i++ {
		if i >= len(buf) {
			return 0, pos, ScanEndOfFile
		}
		b := buf[i]
		if shift == 28 {
			// fifth byte carries only the top 4 bits
			if b&0x80 != 0 {
				return 0, pos, ScanInvalid
			}
			if b&0x70 != 0 {
				return 0, pos, ScanOverflow
			}
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, ScanOK
		}
		shift += 7
	}
}

// AppendU32 appends the unsigned LEB128 encoding of v to dst.
func AppendU32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendS32 appends the signed LEB128 encoding of v to dst.
func AppendS32(dst []byte, v int32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}
