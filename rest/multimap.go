package rest

// multimap is an insertion-ordered mapping from a name to one or more
// values. A name present in the map always has at least one value. Names
// are case-sensitive; no normalization happens at this layer.
//
// Not safe for concurrent mutation; callers synchronize externally.
type multimap struct {
	names  []string
	values map[string][]string
}

func newMultimap() *multimap {
	return &multimap{values: make(map[string][]string)}
}

// add appends value without disturbing existing values for name.
// Duplicates are allowed.
func (m *multimap) add(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = append(m.values[name], value)
}

// set clears all values for name, then appends value. A name already in
// the map keeps its insertion position.
func (m *multimap) set(name, value string) {
	if vs, ok := m.values[name]; ok {
		m.values[name] = vs[:0]
	}
	m.add(name, value)
}

// get returns the values for name in call order.
func (m *multimap) get(name string) []string {
	return m.values[name]
}

func (m *multimap) empty() bool {
	return len(m.names) == 0
}
