package access

// Set is an unordered collection of unique Access values, keyed on the
// identity semantics of spec.md §3.ii (kind + base chain, indices
// ignored). It backs a Statement's input (use) set.
type Set struct {
	byKey map[Key]Access
	order []Key
}

// NewSet returns an empty Set with room for n distinct accesses.
func NewSet(n int) *Set {
	return &Set{byKey: make(map[Key]Access, n)}
}

// Add inserts a into the set if no equal Access is already present.
func (s *Set) Add(a Access) {
	k := a.Key()
	if _, ok := s.byKey[k]; !ok {
		s.byKey[k] = a
		s.order = append(s.order, k)
	}
}

// Len returns the number of distinct accesses in the set.
func (s *Set) Len() int { return len(s.byKey) }

// Slice returns the set's members in the order they were first added,
// so repeated runs over the same input see them in the same order.
func (s *Set) Slice() []Access {
	out := make([]Access, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}
