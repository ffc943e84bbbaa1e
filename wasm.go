package wasmbinfmt

import (
	"github.com/wippyai/wasm-binfmt/binfmt"
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Parse decodes a module image with the decoder matching its header version.
// Only binfmt version 1 exists; any other version word is rejected as an
// illegal file format carrying the version in the payload.
func Parse(data []byte, features ...ver1.Feature) (*ver1.Module, error) {
	format, err := ver1.Compose(features...)
	if err != nil {
		return nil, err
	}
	return ParseWith(format, data)
}

// ParseWith is like Parse with an already composed format.
func ParseWith(format *ver1.Format, data []byte) (*ver1.Module, error) {
	if !binfmt.IsWasmFile(data) {
		return nil, errors.Fault(errors.CodeIllegalWasmFileFormat, 0)
	}
	switch v := binfmt.DetectVersion(data); v {
	case wasm.Version1:
		return format.Decode(data)
	default:
		return nil, errors.New(errors.CodeIllegalWasmFileFormat, 4).U32(v).Build()
	}
}
