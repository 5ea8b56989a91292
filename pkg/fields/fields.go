// Package fields provides the ordered-unique field-value maps at the heart
// of the catalog pipeline. A Map records, per task dimension, the distinct
// values a model's tabular output actually contains; folding per-model maps
// together produces the round-scoped global map consumed by the resolvers.
package fields

// ValueColumn is the measurement column of hub output files. It carries row
// values, not task-dimension values, and must never appear in a Map.
const ValueColumn = "value"

// Map is an insertion-ordered mapping from task dimension name (location,
// target, horizon, ...) to the ordered-unique values observed for it.
// The zero value is not usable; construct with New.
type Map struct {
	dims   []string
	values map[string][]string
	seen   map[string]map[string]struct{}
}

// New creates an empty Map.
func New() *Map {
	return &Map{
		values: make(map[string][]string),
		seen:   make(map[string]map[string]struct{}),
	}
}

// Add records a value for a dimension. Duplicate values and the measurement
// column are ignored. Returns true if the value was newly inserted.
func (m *Map) Add(dimension, value string) bool {
	if dimension == ValueColumn {
		return false
	}
	set, ok := m.seen[dimension]
	if !ok {
		set = make(map[string]struct{})
		m.seen[dimension] = set
		m.dims = append(m.dims, dimension)
	}
	if _, dup := set[value]; dup {
		return false
	}
	set[value] = struct{}{}
	m.values[dimension] = append(m.values[dimension], value)
	return true
}

// AddAll records every value for a dimension, preserving input order.
func (m *Map) AddAll(dimension string, values []string) {
	for _, v := range values {
		m.Add(dimension, v)
	}
}

// Dimensions returns dimension names in first-seen order.
func (m *Map) Dimensions() []string {
	out := make([]string, len(m.dims))
	copy(out, m.dims)
	return out
}

// Values returns the ordered-unique values for a dimension. The returned
// slice is a copy; mutating it does not affect the Map.
func (m *Map) Values(dimension string) []string {
	vals, ok := m.values[dimension]
	if !ok {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Has reports whether the dimension is present with at least one value.
func (m *Map) Has(dimension string) bool {
	return len(m.values[dimension]) > 0
}

// Contains reports whether the dimension contains the value.
func (m *Map) Contains(dimension, value string) bool {
	set, ok := m.seen[dimension]
	if !ok {
		return false
	}
	_, ok = set[value]
	return ok
}

// Len returns the number of values recorded for a dimension.
func (m *Map) Len(dimension string) int {
	return len(m.values[dimension])
}

// Clone returns a deep copy of the Map.
func (m *Map) Clone() *Map {
	out := New()
	for _, dim := range m.dims {
		out.AddAll(dim, m.values[dim])
	}
	return out
}

// Fold merges other into m as a monotonic union: dimensions absent from m
// are inserted verbatim, and for dimensions already present only values not
// yet seen are appended. Existing entries are never removed or reordered,
// so folding the same map twice is a no-op. This is the only operation that
// may grow a round's global map.
func (m *Map) Fold(other *Map) {
	if other == nil {
		return
	}
	for _, dim := range other.dims {
		m.AddAll(dim, other.values[dim])
	}
}

// AsMap returns the underlying data as a plain map of copied slices,
// convenient for serialization and test comparison.
func (m *Map) AsMap() map[string][]string {
	out := make(map[string][]string, len(m.dims))
	for _, dim := range m.dims {
		out[dim] = m.Values(dim)
	}
	return out
}

// FromMap builds a Map from a plain map. Dimension insertion order follows
// the keys slice, which callers supply to keep ordering deterministic.
func FromMap(values map[string][]string, keys []string) *Map {
	m := New()
	for _, dim := range keys {
		m.AddAll(dim, values[dim])
	}
	return m
}
