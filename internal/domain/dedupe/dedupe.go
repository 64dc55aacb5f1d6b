// Package dedupe provides a first-wins keyed collector.
package dedupe

// Set keeps the first value recorded for each key, in insertion order.
// A Set is built fresh for each pass and is not safe for concurrent use.
type Set[T any] struct {
	index  map[string]int
	values []T
}

// New creates an empty Set sized for n entries.
func New[T any](n int) *Set[T] {
	if n < 0 {
		n = 0
	}
	return &Set[T]{
		index:  make(map[string]int, n),
		values: make([]T, 0, n),
	}
}

// Add records v under key unless key was already seen.
// It returns the value kept for key and whether v was a duplicate.
func (s *Set[T]) Add(key string, v T) (kept T, duplicate bool) {
	if i, ok := s.index[key]; ok {
		return s.values[i], true
	}
	s.index[key] = len(s.values)
	s.values = append(s.values, v)
	return v, false
}

// Seen reports whether key has been recorded.
func (s *Set[T]) Seen(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Values returns the kept values in first-seen order.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of distinct keys.
func (s *Set[T]) Len() int {
	return len(s.values)
}
