package sets

// Ordered is a generic set that remembers insertion order.
// Range with Values(); membership checks are O(1).
// Usage: s := sets.NewOrdered[string]("a"); s.Add("b"); for _, v := range s.Values() {...}
type Ordered[T comparable] struct {
	index  map[T]struct{}
	values []T
}

// NewOrdered creates an ordered set pre-populated with the provided values.
// Duplicates keep their first position.
func NewOrdered[T comparable](vals ...T) *Ordered[T] {
	s := &Ordered[T]{index: make(map[T]struct{}, len(vals))}
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s *Ordered[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Has returns true if v is present.
func (s *Ordered[T]) Has(v T) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Len returns the number of members.
func (s *Ordered[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns a copy of the members in insertion order.
func (s *Ordered[T]) Values() []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}
