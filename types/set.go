package types

import (
	"fmt"
	"strings"
)

// Set is an insertion-ordered set of comparable values
type Set[T comparable] struct {
	hash  map[T]struct{}
	items []T
}

func NewSet[T comparable](values ...T) *Set[T] {
	s := &Set[T]{hash: make(map[T]struct{}, len(values))}
	s.Insert(values...)
	return s
}

func (s *Set[T]) Insert(values ...T) {
	for _, v := range values {
		if _, found := s.hash[v]; found {
			continue
		}
		s.hash[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

func (s *Set[T]) Exists(v T) bool {
	if s == nil {
		return false
	}
	_, found := s.hash[v]
	return found
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Array returns the members in insertion order
func (s *Set[T]) Array() []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Difference returns members of s missing from other
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	diff := NewSet[T]()
	for _, v := range s.Array() {
		if !other.Exists(v) {
			diff.Insert(v)
		}
	}
	return diff
}

func (s *Set[T]) String() string {
	parts := make([]string, 0, s.Len())
	for _, v := range s.Array() {
		parts = append(parts, fmt.Sprint(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
