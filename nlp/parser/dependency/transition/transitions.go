package transition

import (
	"fmt"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

const (
	SHIFT     = "Shift"
	REDUCE    = "Reduce"
	LEFT_ARC  = "LeftArc"
	RIGHT_ARC = "RightArc"
)

// Transition is one of the closed set of moves below. Transitions are
// values: the label is the only state they carry.
type Transition interface {
	Code() string
	Label() nlp.DepRel
	// DoesReduce reports whether the transition removes a token from
	// further consideration.
	DoesReduce() bool
	CheckPreconditions(conf *ParseConfiguration) bool
	apply(conf *ParseConfiguration) error
}

// Apply checks preconditions, applies t to conf and appends it to the
// derivation history with a neutral decision.
func Apply(conf *ParseConfiguration, t Transition) error {
	return ApplyDecision(conf, t, Decision{Probability: 1})
}

// ApplyDecision is Apply with the probability and score of the decision
// that chose t.
func ApplyDecision(conf *ParseConfiguration, t Transition, d Decision) error {
	if !t.CheckPreconditions(conf) {
		return &InvalidTransitionError{Code: t.Code(), Configuration: conf.String()}
	}
	if err := t.apply(conf); err != nil {
		return fmt.Errorf("applying %s: %w", t.Code(), err)
	}
	d.Code = t.Code()
	conf.record(t, d)
	return nil
}

func labeledCode(name string, label nlp.DepRel) string {
	if label == "" {
		return name
	}
	return fmt.Sprintf("%s[%s]", name, label)
}

// Shift moves the buffer front onto the stack.
type Shift struct{}

var _ Transition = Shift{}

func (Shift) Code() string      { return SHIFT }
func (Shift) Label() nlp.DepRel { return "" }
func (Shift) DoesReduce() bool  { return false }

func (Shift) CheckPreconditions(conf *ParseConfiguration) bool {
	return conf.BufferSize() > 0
}

func (Shift) apply(conf *ParseConfiguration) error {
	b, _ := conf.buffer.Dequeue()
	conf.stack.Push(b)
	return nil
}

// Reduce pops a governed stack top.
type Reduce struct{}

var _ Transition = Reduce{}

func (Reduce) Code() string      { return REDUCE }
func (Reduce) Label() nlp.DepRel { return "" }
func (Reduce) DoesReduce() bool  { return true }

func (Reduce) CheckPreconditions(conf *ParseConfiguration) bool {
	s := conf.StackTop()
	return s != nil && conf.GoverningDependency(s) != nil
}

func (Reduce) apply(conf *ParseConfiguration) error {
	conf.stack.Pop()
	return nil
}

// LeftArc attaches the stack top to the buffer front and pops it.
type LeftArc struct {
	Relation nlp.DepRel
}

var _ Transition = LeftArc{}

func (t LeftArc) Code() string      { return labeledCode(LEFT_ARC, t.Relation) }
func (t LeftArc) Label() nlp.DepRel { return t.Relation }
func (LeftArc) DoesReduce() bool    { return true }

func (LeftArc) CheckPreconditions(conf *ParseConfiguration) bool {
	s, b := conf.StackTop(), conf.BufferHead()
	return s != nil && b != nil && !s.IsRoot() && conf.GoverningDependency(s) == nil
}

func (t LeftArc) apply(conf *ParseConfiguration) error {
	if _, err := conf.AddDependency(conf.BufferHead(), conf.StackTop(), t.Relation, t); err != nil {
		return err
	}
	conf.stack.Pop()
	return nil
}

// RightArcEager attaches the buffer front to the stack top and shifts it.
type RightArcEager struct {
	Relation nlp.DepRel
}

var _ Transition = RightArcEager{}

func (t RightArcEager) Code() string      { return labeledCode(RIGHT_ARC, t.Relation) }
func (t RightArcEager) Label() nlp.DepRel { return t.Relation }
func (RightArcEager) DoesReduce() bool    { return false }

func (RightArcEager) CheckPreconditions(conf *ParseConfiguration) bool {
	s, b := conf.StackTop(), conf.BufferHead()
	return s != nil && b != nil && conf.GoverningDependency(b) == nil
}

func (t RightArcEager) apply(conf *ParseConfiguration) error {
	if _, err := conf.AddDependency(conf.StackTop(), conf.BufferHead(), t.Relation, t); err != nil {
		return err
	}
	b, _ := conf.buffer.Dequeue()
	conf.stack.Push(b)
	return nil
}

// RightArc attaches the buffer front to the stack top, removes the
// dependent and moves the head back to the front of the buffer.
type RightArc struct {
	Relation nlp.DepRel
}

var _ Transition = RightArc{}

func (t RightArc) Code() string      { return labeledCode(RIGHT_ARC, t.Relation) }
func (t RightArc) Label() nlp.DepRel { return t.Relation }
func (RightArc) DoesReduce() bool    { return true }

func (RightArc) CheckPreconditions(conf *ParseConfiguration) bool {
	s, b := conf.StackTop(), conf.BufferHead()
	return s != nil && b != nil && !b.IsRoot() && conf.GoverningDependency(b) == nil
}

func (t RightArc) apply(conf *ParseConfiguration) error {
	if _, err := conf.AddDependency(conf.StackTop(), conf.BufferHead(), t.Relation, t); err != nil {
		return err
	}
	head, _ := conf.stack.Pop()
	conf.buffer.Dequeue()
	conf.buffer.Push(head)
	return nil
}
