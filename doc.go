// Package wasmbinfmt decodes WebAssembly binary modules and provides the
// bounds-checked linear memory layer used by WASI host calls.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmbinfmt/          Version-dispatching Parse entry point
//	├── wasm/            Wire constants, view types, LEB128 primitives, module builder
//	├── errors/          Parse fault record and code taxonomy
//	├── binfmt/          Module span and header inspection
//	│   └── ver1/        Extensible binfmt version 1 decoder (features, sections, dispatch)
//	├── features/
//	│   ├── wasm1/       WebAssembly 1.0 sections and final check
//	│   └── multivalue/  Multi-value function results
//	├── memory/
//	│   ├── fault/       Fatal memory fault reporting
//	│   └── linear/      Linear memory backends (mmap, allocator, wazero)
//	├── wasip1/          WASI preview1 host calls
//	│   └── memory/      Typed, bounds-checked guest memory access
//	├── config/          YAML configuration
//	└── cmd/wasm-binfmt/ Inspection CLI
//
// # Quick Start
//
// Decode a module with the WebAssembly 1.0 feature set:
//
//	m, err := wasmbinfmt.Parse(data, wasm1.Feature())
//	if err != nil {
//	    report, _ := errors.Explain(err, data)
//	    log.Fatalf("%s at 0x%x: %s", report.Code, report.Offset, report.Message)
//	}
//	types, _ := ver1.Get[*wasm1.TypeSection](m)
//
// Decoded structures are views into data; keep data alive while using them.
//
// # Guest memory
//
// WASI host calls read and write guest memory through wasip1/memory, which
// checks every access against the current memory length. An out-of-bounds
// access is a fatal fault: it is reported and the process terminates.
package wasmbinfmt
