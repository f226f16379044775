package search

import (
	"container/heap"
	"fmt"
	"strings"
)

// Ranked is implemented by candidates that order themselves; Less reports
// whether the receiver ranks before other.
type Ranked[T any] interface {
	Less(other T) bool
}

// Agenda is a heap of candidates with the best ranked candidate on top.
type Agenda[T Ranked[T]] struct {
	Confs []T
}

func NewAgenda[T Ranked[T]](capacity int) *Agenda[T] {
	return &Agenda[T]{Confs: make([]T, 0, capacity)}
}

// agendaHeap adapts an Agenda to heap.Interface.
type agendaHeap[T Ranked[T]] struct {
	a *Agenda[T]
}

func (h agendaHeap[T]) Len() int { return len(h.a.Confs) }

func (h agendaHeap[T]) Less(i, j int) bool {
	return h.a.Confs[i].Less(h.a.Confs[j])
}

func (h agendaHeap[T]) Swap(i, j int) {
	h.a.Confs[i], h.a.Confs[j] = h.a.Confs[j], h.a.Confs[i]
}

func (h agendaHeap[T]) Push(x any) {
	h.a.Confs = append(h.a.Confs, x.(T))
}

func (h agendaHeap[T]) Pop() any {
	n := len(h.a.Confs)
	candidate := h.a.Confs[n-1]
	var zero T
	h.a.Confs[n-1] = zero
	h.a.Confs = h.a.Confs[0 : n-1]
	return candidate
}

func (a *Agenda[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Confs)
}

func (a *Agenda[T]) Push(candidate T) {
	heap.Push(agendaHeap[T]{a}, candidate)
}

// Pop removes and returns the best candidate.
func (a *Agenda[T]) Pop() (T, bool) {
	if a.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(agendaHeap[T]{a}).(T), true
}

// Peek returns the best candidate without removing it.
func (a *Agenda[T]) Peek() (T, bool) {
	if a.Len() == 0 {
		var zero T
		return zero, false
	}
	return a.Confs[0], true
}

// TopB returns up to B candidates in rank order, leaving the agenda intact.
func (a *Agenda[T]) TopB(B int) []T {
	if a.Len() == 0 || B <= 0 {
		return nil
	}
	scratch := &Agenda[T]{Confs: make([]T, a.Len())}
	copy(scratch.Confs, a.Confs)
	if B > scratch.Len() {
		B = scratch.Len()
	}
	retval := make([]T, 0, B)
	for len(retval) < B {
		candidate, _ := scratch.Pop()
		retval = append(retval, candidate)
	}
	return retval
}

// AddCandidates pushes every candidate of other onto the agenda.
func (a *Agenda[T]) AddCandidates(other *Agenda[T]) {
	if other.Len() == 0 {
		return
	}
	a.Confs = append(a.Confs, other.Confs...)
	heap.Init(agendaHeap[T]{a})
}

func (a *Agenda[T]) Clear() {
	a.Confs = a.Confs[:0]
}

func (a *Agenda[T]) String() string {
	retval := make([]string, len(a.Confs))
	for i, conf := range a.Confs {
		retval[i] = fmt.Sprintf("%v", conf)
	}
	return strings.Join(retval, " , ")
}
