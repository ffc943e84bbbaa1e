package ver1

import (
	"github.com/wippyai/wasm-binfmt/binfmt"
)

// Module is the decoded form of a module image: the span it borrows from and
// one storage per section kind of the composing Format.
type Module struct {
	format   *Format
	sections []Section
	Span     binfmt.ModuleSpan
}

// Format returns the format that decoded the module.
func (m *Module) Format() *Format { return m.format }

// Params returns the merged feature parameters of the module's format.
func (m *Module) Params() *Params { return &m.format.params }

// Section returns the storage for id, or nil when no feature contributes it.
func (m *Module) Section(id byte) Section {
	if int(id) < len(m.sections) {
		return m.sections[id]
	}
	return nil
}

// Sections returns all storages ordered by id.
func (m *Module) Sections() []Section { return m.sections }

// Get returns the first storage of type T.
func Get[T Section](m *Module) (T, bool) {
	for _, s := range m.sections {
		if t, ok := s.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Bytes returns the module bytes in [begin, end).
func (m *Module) Bytes(begin, end int) []byte {
	return m.Span.Slice(begin, end)
}
