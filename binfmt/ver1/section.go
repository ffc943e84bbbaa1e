package ver1

// SectionSpan is the payload range of one section, as module offsets.
type SectionSpan struct {
	Begin int
	End   int
}

// Len returns the payload size.
func (s SectionSpan) Len() int { return s.End - s.Begin }

// Section is the storage and decoder for one section kind.
//
// Decode consumes the module bytes in [span.Begin, span.End) and fills the
// storage. idOffset is the position of the section id byte, used when
// reporting faults about the section as a whole.
type Section interface {
	ID() byte
	Name() string
	Present() bool
	Decode(m *Module, span SectionSpan, idOffset int) error
}

// SectionFactory creates a fresh, absent storage for a section kind.
type SectionFactory struct {
	New  func() Section
	Name string
	ID   byte
}

// SectionState tracks whether a section was seen and where. Section storages
// embed it to get Present and duplicate detection.
type SectionState struct {
	span    SectionSpan
	present bool
}

// Present reports whether the section was decoded.
func (s *SectionState) Present() bool { return s.present }

// Span returns the payload range of a present section.
func (s *SectionState) Span() SectionSpan { return s.span }

// Claim records span as this section's range. It returns false when the
// section was already present.
func (s *SectionState) Claim(span SectionSpan) bool {
	if s.present {
		return false
	}
	s.span = span
	s.present = true
	return true
}
