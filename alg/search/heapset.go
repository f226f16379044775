package search

import (
	"sort"
)

// HeapSet is a bucket queue of agendas keyed by an integer index; the
// active bucket is always the one with the smallest index.
type HeapSet[T Ranked[T]] struct {
	agendas map[int]*Agenda[T]
	indices []int
}

func NewHeapSet[T Ranked[T]]() *HeapSet[T] {
	return &HeapSet[T]{agendas: make(map[int]*Agenda[T])}
}

// Agenda returns the agenda at index, creating it if absent.
func (s *HeapSet[T]) Agenda(index int) *Agenda[T] {
	if agenda, exists := s.agendas[index]; exists {
		return agenda
	}
	agenda := NewAgenda[T](0)
	s.agendas[index] = agenda
	pos := sort.SearchInts(s.indices, index)
	s.indices = append(s.indices, 0)
	copy(s.indices[pos+1:], s.indices[pos:])
	s.indices[pos] = index
	return agenda
}

func (s *HeapSet[T]) Push(index int, candidate T) {
	s.Agenda(index).Push(candidate)
}

// Min returns the smallest index and its agenda.
func (s *HeapSet[T]) Min() (int, *Agenda[T], bool) {
	if len(s.indices) == 0 {
		return 0, nil, false
	}
	index := s.indices[0]
	return index, s.agendas[index], true
}

// Remove detaches and returns the agenda at index.
func (s *HeapSet[T]) Remove(index int) *Agenda[T] {
	agenda, exists := s.agendas[index]
	if !exists {
		return nil
	}
	delete(s.agendas, index)
	pos := sort.SearchInts(s.indices, index)
	s.indices = append(s.indices[:pos], s.indices[pos+1:]...)
	return agenda
}

// Len is the number of agendas.
func (s *HeapSet[T]) Len() int {
	return len(s.indices)
}

// Size is the number of candidates across all agendas.
func (s *HeapSet[T]) Size() int {
	var size int
	for _, agenda := range s.agendas {
		size += agenda.Len()
	}
	return size
}

func (s *HeapSet[T]) Indices() []int {
	retval := make([]int, len(s.indices))
	copy(retval, s.indices)
	return retval
}

// Merge empties the set into a single agenda.
func (s *HeapSet[T]) Merge() *Agenda[T] {
	merged := NewAgenda[T](s.Size())
	for _, index := range s.indices {
		merged.AddCandidates(s.agendas[index])
	}
	s.agendas = make(map[int]*Agenda[T])
	s.indices = nil
	return merged
}

// TopB returns up to B best candidates across every agenda, in rank order.
func (s *HeapSet[T]) TopB(B int) []T {
	all := NewAgenda[T](s.Size())
	for _, index := range s.indices {
		all.AddCandidates(s.agendas[index])
	}
	return all.TopB(B)
}
