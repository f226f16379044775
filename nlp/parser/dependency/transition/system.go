package transition

import (
	"fmt"
	"sort"
	"strings"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
	"github.com/joliciel-informatique/talismane-sub002/util"
)

const (
	ARC_EAGER    = "ArcEager"
	SHIFT_REDUCE = "ShiftReduce"
)

// TransitionSystem owns the dependency labels and the transitions built on
// them, and drives configurations to gold trees with its oracle.
type TransitionSystem interface {
	Name() string
	Labels() []nlp.DepRel
	// Transitions returns every transition of the system in a fixed order.
	Transitions() []Transition
	TransitionByCode(code string) (Transition, error)
	// PredictTransitions applies to conf the canonical transition sequence
	// producing exactly the gold arcs.
	PredictTransitions(conf *ParseConfiguration, gold []*nlp.DependencyArc) error
}

func NewTransitionSystem(name string, labels []nlp.DepRel) (TransitionSystem, error) {
	switch name {
	case ARC_EAGER:
		return NewArcEager(labels), nil
	case SHIFT_REDUCE:
		return NewShiftReduce(labels), nil
	}
	return nil, fmt.Errorf("unknown transition system %q", name)
}

// LabelsFromStrings converts configuration values to dependency labels.
func LabelsFromStrings(values []string) []nlp.DepRel {
	retval := make([]nlp.DepRel, len(values))
	for i, value := range values {
		retval[i] = nlp.DepRel(value)
	}
	return retval
}

type baseSystem struct {
	name        string
	labels      []nlp.DepRel
	labelSet    map[nlp.DepRel]bool
	transitions []Transition
	codes       *util.EnumSet
}

func newBaseSystem(name string, labels []nlp.DepRel, unlabeled []Transition, labeled ...func(nlp.DepRel) Transition) *baseSystem {
	s := &baseSystem{
		name:     name,
		labels:   make([]nlp.DepRel, 0, len(labels)),
		labelSet: make(map[nlp.DepRel]bool, len(labels)),
	}
	for _, label := range labels {
		if !s.labelSet[label] {
			s.labelSet[label] = true
			s.labels = append(s.labels, label)
		}
	}
	s.transitions = append(s.transitions, unlabeled...)
	for _, build := range labeled {
		for _, label := range s.labels {
			s.transitions = append(s.transitions, build(label))
		}
	}
	s.codes = util.NewEnumSet(len(s.transitions))
	for _, t := range s.transitions {
		s.codes.Add(t.Code())
	}
	s.codes.Frozen = true
	return s
}

func (s *baseSystem) Name() string {
	return s.name
}

func (s *baseSystem) Labels() []nlp.DepRel {
	retval := make([]nlp.DepRel, len(s.labels))
	copy(retval, s.labels)
	return retval
}

func (s *baseSystem) Transitions() []Transition {
	retval := make([]Transition, len(s.transitions))
	copy(retval, s.transitions)
	return retval
}

// TransitionIndex is the position of code in Transitions().
func (s *baseSystem) TransitionIndex(code string) (int, bool) {
	return s.codes.IndexOf(code)
}

func (s *baseSystem) TransitionByCode(code string) (Transition, error) {
	if index, exists := s.codes.IndexOf(code); exists {
		return s.transitions[index], nil
	}
	name, label := code, ""
	if open := strings.IndexByte(code, '['); open > 0 && strings.HasSuffix(code, "]") {
		name, label = code[:open], code[open+1:len(code)-1]
	}
	if label != "" && (name == LEFT_ARC || name == RIGHT_ARC) && !s.labelSet[nlp.DepRel(label)] {
		return nil, &UnknownLabelError{System: s.name, Label: nlp.DepRel(label)}
	}
	return nil, &UnknownTransitionError{System: s.name, Code: code}
}

func (s *baseSystem) labeled(name string, label nlp.DepRel) (Transition, error) {
	if !s.labelSet[label] {
		return nil, &UnknownLabelError{System: s.name, Label: label}
	}
	return s.TransitionByCode(labeledCode(name, label))
}

// goldArcs is the set of arcs an oracle has yet to produce.
type goldArcs struct {
	byPair     map[[2]int]*nlp.DependencyArc
	dependents map[int]int
}

func newGoldArcs(system string, conf *ParseConfiguration, arcs []*nlp.DependencyArc) (*goldArcs, error) {
	g := &goldArcs{
		byPair:     make(map[[2]int]*nlp.DependencyArc, len(arcs)),
		dependents: make(map[int]int, len(arcs)),
	}
	governed := make(map[int]*nlp.DependencyArc, len(arcs))
	for _, arc := range arcs {
		if arc.Head == nil || arc.Dependent == nil ||
			conf.Token(arc.Head.Index) == nil || conf.Token(arc.Dependent.Index) == nil {
			return nil, &OracleUnreachableError{System: system, Reason: fmt.Sprintf("arc %v outside the sentence", arc)}
		}
		if arc.Dependent.IsRoot() {
			return nil, &OracleUnreachableError{System: system, Reason: fmt.Sprintf("arc %v governs ROOT", arc)}
		}
		if other, exists := governed[arc.Dependent.Index]; exists {
			return nil, &OracleUnreachableError{
				System:    system,
				Reason:    fmt.Sprintf("token %v has more than one gold governor", arc.Dependent),
				Remaining: []*nlp.DependencyArc{other, arc},
			}
		}
		governed[arc.Dependent.Index] = arc
		g.byPair[[2]int{arc.Head.Index, arc.Dependent.Index}] = arc
		g.dependents[arc.Head.Index]++
	}
	return g, nil
}

func (g *goldArcs) find(head, dependent *nlp.Token) (*nlp.DependencyArc, bool) {
	if head == nil || dependent == nil {
		return nil, false
	}
	arc, exists := g.byPair[[2]int{head.Index, dependent.Index}]
	return arc, exists
}

func (g *goldArcs) remove(arc *nlp.DependencyArc) {
	delete(g.byPair, [2]int{arc.Head.Index, arc.Dependent.Index})
	g.dependents[arc.Head.Index]--
}

func (g *goldArcs) hasDependents(token *nlp.Token) bool {
	return g.dependents[token.Index] > 0
}

func (g *goldArcs) remaining() []*nlp.DependencyArc {
	retval := make([]*nlp.DependencyArc, 0, len(g.byPair))
	for _, arc := range g.byPair {
		retval = append(retval, arc)
	}
	sort.Sort(nlp.ArcsByDependent(retval))
	return retval
}

// drive applies the transitions chosen by next until the buffer empties.
func drive(system string, conf *ParseConfiguration, gold *goldArcs, next func() (Transition, error)) error {
	for !conf.IsTerminal() {
		t, err := next()
		if err != nil {
			return err
		}
		if err := Apply(conf, t); err != nil {
			return fmt.Errorf("%s oracle: %w", system, err)
		}
	}
	if len(gold.byPair) > 0 {
		return &OracleUnreachableError{
			System:    system,
			Reason:    "gold arcs left once the buffer emptied",
			Remaining: gold.remaining(),
		}
	}
	return nil
}
