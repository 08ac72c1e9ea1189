package ecs

import "sort"

// StringIndex maps names to values registered at setup time. It is only
// consulted while parsing configs, never from the frame loop.
type StringIndex[V any] struct {
	m map[string]V
}

func NewStringIndex[V any]() *StringIndex[V] {
	return &StringIndex[V]{m: make(map[string]V, 32)}
}

// Add binds name to v. It returns false if name is already bound.
func (s *StringIndex[V]) Add(name string, v V) bool {
	if _, ok := s.m[name]; ok {
		return false
	}
	s.m[name] = v
	return true
}

func (s *StringIndex[V]) Get(name string) (V, bool) {
	v, ok := s.m[name]
	return v, ok
}

func (s *StringIndex[V]) Len() int { return len(s.m) }

// Names returns every bound name, sorted.
func (s *StringIndex[V]) Names() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
