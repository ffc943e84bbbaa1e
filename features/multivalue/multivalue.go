// Package multivalue lifts the single-result restriction on function types.
// It contributes no sections and is composed alongside wasm1.
package multivalue

import "github.com/wippyai/wasm-binfmt/wasm"

// MultiValue is the multi-value feature descriptor.
type MultiValue struct{}

// Feature returns the multi-value feature.
func Feature() MultiValue { return MultiValue{} }

func (MultiValue) Name() string                 { return "multi-value" }
func (MultiValue) BinfmtVersion() uint32        { return wasm.Version1 }
func (MultiValue) AllowMultiResultVector() bool { return true }
