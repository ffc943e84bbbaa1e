package ver1

import "sort"

// NameTable maps well-known custom section names to the ordinals features assign them.
type NameTable struct {
	ordinals map[string]int
}

// NewNameTable builds a table from a name to ordinal map.
func NewNameTable(ordinals map[string]int) *NameTable {
	t := &NameTable{ordinals: make(map[string]int, len(ordinals))}
	for k, v := range ordinals {
		t.ordinals[k] = v
	}
	return t
}

// Lookup returns the ordinal of a custom section name.
func (t *NameTable) Lookup(name string) (int, bool) {
	ord, ok := t.ordinals[name]
	return ord, ok
}

// Len returns the number of known names.
func (t *NameTable) Len() int { return len(t.ordinals) }

// Names returns the known names sorted by ordinal.
func (t *NameTable) Names() []string {
	out := make([]string, 0, len(t.ordinals))
	for k := range t.ordinals {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := t.ordinals[out[i]], t.ordinals[out[j]]
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}
