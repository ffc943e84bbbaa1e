// Package wasm provides the wire-level vocabulary of WebAssembly binary modules.
//
// It holds the constants of the binary format (magic, section ids, value type
// tags, descriptor kinds), the zero-copy view types produced by the decoders in
// binfmt/ver1 and features/wasm1, and the LEB128 primitives every decoder is
// built on.
//
// # LEB128
//
// Decoding operates on a byte slice and a position and never reads past the
// end of the slice. Running out of bytes is reported separately from a
// malformed or overflowing encoding:
//
//	v, next, code := wasm.DecodeU32(buf, pos)
//	switch code {
//	case wasm.ScanOK:
//	case wasm.ScanEndOfFile:
//	    // truncated
//	default:
//	    // malformed
//	}
//
// # Building modules
//
// Builder assembles binary modules section by section, in call order:
//
//	data := wasm.NewBuilder().
//	    Types(wasm.Signature{Params: []wasm.ValueType{wasm.ValI32}}).
//	    Imports(wasm.ImportEntry{Module: "env", Name: "f", Kind: wasm.KindFunc}).
//	    Bytes()
package wasm
