// Package ver1 is the extensible decoder for binfmt version 1 modules.
//
// A decoder is assembled from features. Each feature may contribute section
// storages, legal value types, the multi-value flag, parser limits, a final
// cross-section check, and ordinals for well-known custom section names.
// Compose validates that the contributed section ids form the contiguous range
// 0..max and builds a direct-indexed dispatch table:
//
//	format := ver1.MustCompose(wasm1.Feature(), multivalue.Feature())
//	m, err := format.Decode(data)
//	if err != nil {
//	    // *errors.Error with offset and code
//	}
//	types, _ := ver1.Get[*wasm1.TypeSection](m)
//
// The top-level loop enforces canonical section order (custom sections are
// exempt), rejects unknown ids with illegal_section_id, and stops at the first
// fault. Decoded structures borrow the input buffer; the buffer must outlive
// the Module.
package ver1
