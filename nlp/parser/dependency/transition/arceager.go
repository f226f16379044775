package transition

import (
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

// ArcEager is the arc-eager system: right dependents are attached as soon
// as they reach the buffer front.
//
//	LA-r	(S|wi,	wj|B,	A) => (S      ,	wj|B,	A+{(wj,r,wi)})	if: (wk,r',wi) notin A; i != 0
//	RA-r	(S|wi,	wj|B,	A) => (S|wi|wj,	   B,	A+{(wi,r,wj)})	if: (wk,r',wj) notin A
//	RE	(S|wi,	   B,	A) => (S      ,	   B,	A)		if: (wk,r',wi) in A
//	SH	(S   ,	wi|B, 	A) => (S|wi   ,	   B,	A)
type ArcEager struct {
	*baseSystem
}

var _ TransitionSystem = &ArcEager{}

func NewArcEager(labels []nlp.DepRel) *ArcEager {
	return &ArcEager{newBaseSystem(ARC_EAGER, labels,
		[]Transition{Shift{}, Reduce{}},
		func(l nlp.DepRel) Transition { return LeftArc{l} },
		func(l nlp.DepRel) Transition { return RightArcEager{l} },
	)}
}

func (a *ArcEager) PredictTransitions(conf *ParseConfiguration, arcs []*nlp.DependencyArc) error {
	gold, err := newGoldArcs(a.name, conf, arcs)
	if err != nil {
		return err
	}
	return drive(a.name, conf, gold, func() (Transition, error) {
		s, b := conf.StackTop(), conf.BufferHead()
		if arc, exists := gold.find(b, s); exists {
			gold.remove(arc)
			return a.labeled(LEFT_ARC, arc.Label)
		}
		if arc, exists := gold.find(s, b); exists {
			gold.remove(arc)
			return a.labeled(RIGHT_ARC, arc.Label)
		}
		if s != nil && conf.GoverningDependency(s) != nil && !gold.hasDependents(s) {
			return Reduce{}, nil
		}
		return Shift{}, nil
	})
}
