package types

import "fmt"

const RootLabel DepRel = "root"

type DepRel string

func (d DepRel) String() string {
	return string(d)
}

// DependencyArc links a head to a dependent. Head, Dependent and Label are
// fixed once created; Probability and Comment may be annotated later.
type DependencyArc struct {
	Head, Dependent *Token
	Label           DepRel
	Probability     float64
	Comment         string
}

// ArcKey is the structural identity of an arc.
type ArcKey struct {
	Head, Dependent int
	Label           DepRel
}

func (a *DependencyArc) Key() ArcKey {
	return ArcKey{a.Head.Index, a.Dependent.Index, a.Label}
}

func (a *DependencyArc) Equal(other *DependencyArc) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Key() == other.Key()
}

func (a *DependencyArc) String() string {
	return fmt.Sprintf("%v-%v->%v", a.Head, a.Label, a.Dependent)
}

func NewDependencyArc(head, dependent *Token, label DepRel) *DependencyArc {
	return &DependencyArc{Head: head, Dependent: dependent, Label: label, Probability: 1}
}

type ArcsByDependent []*DependencyArc

func (a ArcsByDependent) Len() int      { return len(a) }
func (a ArcsByDependent) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ArcsByDependent) Less(i, j int) bool {
	return a[i].Dependent.Index < a[j].Dependent.Index
}
