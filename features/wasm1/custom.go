package wasm1

import (
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Custom is one custom section. The payload runs from CustomBegin to Span.End.
type Custom struct {
	Name        wasm.Name
	Payload     []byte
	Span        ver1.SectionSpan
	CustomBegin int
}

// CustomSection collects every custom section of a module (id 0). Custom
// sections may repeat and appear anywhere, so it never reports duplicates.
type CustomSection struct {
	Customs []Custom
}

func (*CustomSection) ID() byte        { return wasm.SectionCustom }
func (*CustomSection) Name() string    { return "Custom" }
func (s *CustomSection) Present() bool { return len(s.Customs) > 0 }

func (s *CustomSection) Decode(m *ver1.Module, span ver1.SectionSpan, _ int) error {
	c := newCursor(m, span)
	name, err := c.name(customNameCodes)
	if err != nil {
		return err
	}
	s.Customs = append(s.Customs, Custom{
		Name:        name,
		Payload:     c.data[c.pos:span.End:span.End],
		Span:        span,
		CustomBegin: c.pos,
	})
	return nil
}

// Find returns the first custom section called name.
func (s *CustomSection) Find(name string) (*Custom, bool) {
	for i := range s.Customs {
		if string(s.Customs[i].Name.Bytes) == name {
			return &s.Customs[i], true
		}
	}
	return nil, false
}

// CustomPayloads implements ver1.CustomSource.
func (s *CustomSection) CustomPayloads() []ver1.CustomPayload {
	out := make([]ver1.CustomPayload, len(s.Customs))
	for i, c := range s.Customs {
		out[i] = ver1.CustomPayload{Name: c.Name.String(), Payload: c.Payload, Offset: c.Span.Begin}
	}
	return out
}
