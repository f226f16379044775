package transition

import (
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

// ShiftReduce is the classic (arc-standard) system. A right arc removes its
// dependent and returns the head to the buffer, so it is only taken once
// the dependent has collected all of its own dependents.
//
//	LA-r	(S|wi,	wj|B,	A) => (S   ,	wj|B,	A+{(wj,r,wi)})	if: i != 0
//	RA-r	(S|wi,	wj|B,	A) => (S   ,	wi|B,	A+{(wi,r,wj)})
//	SH	(S   ,	wi|B, 	A) => (S|wi,	   B,	A)
type ShiftReduce struct {
	*baseSystem
}

var _ TransitionSystem = &ShiftReduce{}

func NewShiftReduce(labels []nlp.DepRel) *ShiftReduce {
	return &ShiftReduce{newBaseSystem(SHIFT_REDUCE, labels,
		[]Transition{Shift{}},
		func(l nlp.DepRel) Transition { return LeftArc{l} },
		func(l nlp.DepRel) Transition { return RightArc{l} },
	)}
}

func (a *ShiftReduce) PredictTransitions(conf *ParseConfiguration, arcs []*nlp.DependencyArc) error {
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
		if arc, exists := gold.find(s, b); exists && !gold.hasDependents(b) {
			gold.remove(arc)
			return a.labeled(RIGHT_ARC, arc.Label)
		}
		return Shift{}, nil
	})
}
