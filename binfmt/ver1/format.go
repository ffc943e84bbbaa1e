package ver1

import (
	"fmt"
	"sort"

	"github.com/wippyai/wasm-binfmt/wasm"
)

// Format is a composed set of features: the section table, merged parameters,
// final checks and the custom section name table. A Format is immutable and
// safe for concurrent Decode calls on independent buffers.
type Format struct {
	names     *NameTable
	features  []Feature
	factories []SectionFactory
	finals    []FinalChecker
	params    Params
}

// Compose merges features into a Format. The union of contributed section ids
// must be exactly 0..max with no gaps and no duplicates.
func Compose(features ...Feature) (*Format, error) {
	f := &Format{
		features: append([]Feature(nil), features...),
		params:   Params{Limits: DefaultLimits()},
	}

	var factories []SectionFactory
	ordinals := make(map[string]int)
	for _, feat := range features {
		if v := feat.BinfmtVersion(); v != wasm.Version1 {
			return nil, fmt.Errorf("feature %q targets binfmt version %d, not 1", feat.Name(), v)
		}
		if p, ok := feat.(SectionProvider); ok {
			factories = append(factories, p.Sections()...)
		}
		if p, ok := feat.(ValueTypeProvider); ok {
			for _, vt := range p.ValueTypes() {
				f.params.valueTypes[vt] = true
			}
		}
		if p, ok := feat.(MultiValueProvider); ok && p.AllowMultiResultVector() {
			f.params.AllowMultiValue = true
		}
		if p, ok := feat.(FinalChecker); ok {
			f.finals = append(f.finals, p)
		}
		if p, ok := feat.(LimitsProvider); ok {
			f.params.Limits = f.params.Limits.tighten(p.ParserLimits())
		}
		if p, ok := feat.(CustomSectionOrdinalProvider); ok {
			for name, ord := range p.CustomSectionOrdinals() {
				if prev, dup := ordinals[name]; dup && prev != ord {
					return nil, fmt.Errorf("custom section %q mapped to ordinals %d and %d", name, prev, ord)
				}
				ordinals[name] = ord
			}
		}
	}

	sort.SliceStable(factories, func(i, j int) bool { return factories[i].ID < factories[j].ID })
	for i, sf := range factories {
		if int(sf.ID) != i {
			if i > 0 && factories[i-1].ID == sf.ID {
				return nil, fmt.Errorf("section id %d contributed twice (%s, %s)", sf.ID, factories[i-1].Name, sf.Name)
			}
			return nil, fmt.Errorf("section ids are not contiguous: missing id %d before %s", i, sf.Name)
		}
		if sf.New == nil {
			return nil, fmt.Errorf("section %s has no constructor", sf.Name)
		}
	}
	f.factories = factories
	f.names = NewNameTable(ordinals)
	return f, nil
}

// MustCompose is like Compose but panics on an invalid feature combination.
func MustCompose(features ...Feature) *Format {
	f, err := Compose(features...)
	if err != nil {
		panic(err)
	}
	return f
}

// Features returns the composed features in composition order.
func (f *Format) Features() []Feature { return f.features }

// Params returns the merged feature parameters.
func (f *Format) Params() *Params { return &f.params }

// Names returns the custom section name table.
func (f *Format) Names() *NameTable { return f.names }

// MaxSectionID returns the highest section id, or -1 when no feature contributes sections.
func (f *Format) MaxSectionID() int { return len(f.factories) - 1 }

// SectionName returns the name of a section id, or "" for unknown ids.
func (f *Format) SectionName(id byte) string {
	if int(id) < len(f.factories) {
		return f.factories[id].Name
	}
	return ""
}

// NewModule returns a module over data with every section storage absent.
func (f *Format) NewModule(data []byte) *Module {
	m := &Module{format: f}
	m.Span.Bytes = data
	if len(f.factories) > 0 {
		m.sections = make([]Section, len(f.factories))
		for i, sf := range f.factories {
			m.sections[i] = sf.New()
		}
	}
	return m
}
