package transition

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/joliciel-informatique/talismane-sub002/alg"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

// Decision records the probability and score attached to one applied
// transition.
type Decision struct {
	Code        string
	Probability float64
	Score       float64
}

type featureResult struct {
	value   string
	present bool
}

var configurationSequence uint64

// ParseConfiguration is one state of the search space: a stack, a buffer,
// the arcs built so far and the transitions that produced them.
//
// A configuration is owned by a single goroutine until it is placed in an
// agenda; from then on it is only read or forked.
type ParseConfiguration struct {
	sentence    nlp.PosTagSequence
	stack       alg.Stack
	buffer      alg.Queue
	arcs        []*nlp.DependencyArc
	nodes       []*arcNode
	transitions []Transition
	decisions   []Decision

	scoring    ScoringStrategy
	comparison ComparisonStrategy
	sequence   uint64

	score           float64
	scoreCached     bool
	comparisonIndex int
	indexCached     bool
	features        map[string]featureResult
	tree            *DependencyNode
}

type Option func(*ParseConfiguration)

func WithScoring(strategy ScoringStrategy) Option {
	return func(c *ParseConfiguration) {
		c.scoring = strategy
	}
}

func WithComparison(strategy ComparisonStrategy) Option {
	return func(c *ParseConfiguration) {
		c.comparison = strategy
	}
}

// NewConfiguration builds the initial configuration for a tagged sentence:
// ROOT on the stack and every sentence token in the buffer.
func NewConfiguration(seq nlp.PosTagSequence, opts ...Option) *ParseConfiguration {
	sentence := seq.WithRoot()
	for i, token := range sentence {
		if token.Index != i {
			// tokens are addressed by position
			renumbered := *token
			renumbered.Index = i
			sentence[i] = &renumbered
		}
	}
	length := len(sentence)
	c := &ParseConfiguration{
		sentence:    sentence,
		stack:       alg.NewStackArray(length),
		buffer:      alg.NewQueueSlice(length),
		arcs:        make([]*nlp.DependencyArc, 0, length),
		nodes:       make([]*arcNode, length),
		transitions: make([]Transition, 0, 2*length),
		decisions:   make([]Decision, 0, 2*length),
		scoring:     Additive{},
		comparison:  StackAndBuffer{},
		sequence:    atomic.AddUint64(&configurationSequence, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	emptyNode := &arcNode{}
	for i := range c.nodes {
		c.nodes[i] = emptyNode
	}
	c.stack.Push(0)
	for i := 1; i < length; i++ {
		c.buffer.Enqueue(i)
	}
	return c
}

// Fork returns a copy of the configuration sharing only immutable state.
// Caches for score, comparison index, features and tree start empty.
func (c *ParseConfiguration) Fork() *ParseConfiguration {
	newConf := &ParseConfiguration{
		sentence:    c.sentence,
		stack:       c.stack.Copy(),
		buffer:      c.buffer.Copy(),
		arcs:        make([]*nlp.DependencyArc, len(c.arcs), len(c.arcs)+1),
		nodes:       make([]*arcNode, len(c.nodes)),
		transitions: make([]Transition, len(c.transitions), len(c.transitions)+1),
		decisions:   make([]Decision, len(c.decisions), len(c.decisions)+1),
		scoring:     c.scoring,
		comparison:  c.comparison,
		sequence:    atomic.AddUint64(&configurationSequence, 1),
	}
	copy(newConf.arcs, c.arcs)
	copy(newConf.nodes, c.nodes)
	copy(newConf.transitions, c.transitions)
	copy(newConf.decisions, c.decisions)
	return newConf
}

// AddDependency adds an arc from head to dependent. The configuration is
// left unchanged when an error is returned.
func (c *ParseConfiguration) AddDependency(head, dependent *nlp.Token, label nlp.DepRel, t Transition) (*nlp.DependencyArc, error) {
	if !c.owns(head) || !c.owns(dependent) {
		return nil, fmt.Errorf("arc %v->%v refers to a token outside the sentence", head, dependent)
	}
	for ancestor := head.Index; ; {
		if ancestor == dependent.Index {
			return nil, &CycleError{Head: c.sentence[head.Index], Dependent: c.sentence[dependent.Index]}
		}
		governor := c.nodes[ancestor].governor
		if governor == nil {
			break
		}
		ancestor = governor.Head.Index
	}
	if c.nodes[dependent.Index].governor != nil {
		return nil, fmt.Errorf("%w: %v", ErrMultipleGovernors, dependent)
	}

	arc := nlp.NewDependencyArc(c.sentence[head.Index], c.sentence[dependent.Index], label)
	c.arcs = append(c.arcs, arc)

	depNode := c.nodes[dependent.Index].copy()
	depNode.governor = arc
	depNode.transition = t
	c.nodes[dependent.Index] = depNode

	headNode := c.nodes[head.Index].copy()
	headNode.addModifier(head.Index, dependent.Index)
	c.nodes[head.Index] = headNode

	c.tree = nil
	return arc, nil
}

func (c *ParseConfiguration) owns(token *nlp.Token) bool {
	return token != nil && token.Index >= 0 && token.Index < len(c.sentence)
}

func (c *ParseConfiguration) record(t Transition, d Decision) {
	c.transitions = append(c.transitions, t)
	c.decisions = append(c.decisions, d)
	c.scoreCached = false
	c.indexCached = false
	c.features = nil
	c.tree = nil
}

// Sentence returns the tokens including ROOT at position 0.
func (c *ParseConfiguration) Sentence() nlp.PosTagSequence {
	return c.sentence
}

func (c *ParseConfiguration) Token(index int) *nlp.Token {
	if index < 0 || index >= len(c.sentence) {
		return nil
	}
	return c.sentence[index]
}

func (c *ParseConfiguration) Root() *nlp.Token {
	return c.sentence[0]
}

// Length is the number of sentence tokens, ROOT excluded.
func (c *ParseConfiguration) Length() int {
	return len(c.sentence) - 1
}

func (c *ParseConfiguration) StackSize() int {
	return c.stack.Size()
}

func (c *ParseConfiguration) BufferSize() int {
	return c.buffer.Size()
}

// StackAt returns the token i positions below the stack top, or nil.
func (c *ParseConfiguration) StackAt(i int) *nlp.Token {
	if index, exists := c.stack.Index(i); exists {
		return c.sentence[index]
	}
	return nil
}

// BufferAt returns the token i positions after the buffer front, or nil.
func (c *ParseConfiguration) BufferAt(i int) *nlp.Token {
	if index, exists := c.buffer.Index(i); exists {
		return c.sentence[index]
	}
	return nil
}

func (c *ParseConfiguration) StackTop() *nlp.Token {
	return c.StackAt(0)
}

func (c *ParseConfiguration) BufferHead() *nlp.Token {
	return c.BufferAt(0)
}

// StackTokens lists the stack from the top down.
func (c *ParseConfiguration) StackTokens() []*nlp.Token {
	return c.tokens(c.stack.Values())
}

// BufferTokens lists the buffer from the front.
func (c *ParseConfiguration) BufferTokens() []*nlp.Token {
	return c.tokens(c.buffer.Values())
}

func (c *ParseConfiguration) tokens(indices []int) []*nlp.Token {
	retval := make([]*nlp.Token, len(indices))
	for i, index := range indices {
		retval[i] = c.sentence[index]
	}
	return retval
}

func (c *ParseConfiguration) IsTerminal() bool {
	return c.buffer.Size() == 0
}

func (c *ParseConfiguration) GoverningDependency(token *nlp.Token) *nlp.DependencyArc {
	if !c.owns(token) {
		return nil
	}
	return c.nodes[token.Index].governor
}

func (c *ParseConfiguration) Head(token *nlp.Token) *nlp.Token {
	if arc := c.GoverningDependency(token); arc != nil {
		return arc.Head
	}
	return nil
}

func (c *ParseConfiguration) LeftDependents(token *nlp.Token) []*nlp.Token {
	if !c.owns(token) {
		return nil
	}
	return c.tokens(c.nodes[token.Index].leftMods)
}

func (c *ParseConfiguration) RightDependents(token *nlp.Token) []*nlp.Token {
	if !c.owns(token) {
		return nil
	}
	return c.tokens(c.nodes[token.Index].rightMods)
}

// Dependents returns the dependents of token ordered by index.
func (c *ParseConfiguration) Dependents(token *nlp.Token) []*nlp.Token {
	if !c.owns(token) {
		return nil
	}
	node := c.nodes[token.Index]
	retval := make([]*nlp.Token, 0, len(node.leftMods)+len(node.rightMods))
	retval = append(retval, c.tokens(node.leftMods)...)
	return append(retval, c.tokens(node.rightMods)...)
}

// DependencyTransition returns the transition which attached token to its
// governor, or nil.
func (c *ParseConfiguration) DependencyTransition(token *nlp.Token) Transition {
	if !c.owns(token) {
		return nil
	}
	return c.nodes[token.Index].transition
}

// Dependencies returns the arcs ordered by dependent index.
func (c *ParseConfiguration) Dependencies() []*nlp.DependencyArc {
	retval := make([]*nlp.DependencyArc, len(c.arcs))
	copy(retval, c.arcs)
	sort.Stable(nlp.ArcsByDependent(retval))
	return retval
}

func (c *ParseConfiguration) NumberOfArcs() int {
	return len(c.arcs)
}

func (c *ParseConfiguration) Transitions() []Transition {
	retval := make([]Transition, len(c.transitions))
	copy(retval, c.transitions)
	return retval
}

func (c *ParseConfiguration) Decisions() []Decision {
	retval := make([]Decision, len(c.decisions))
	copy(retval, c.decisions)
	return retval
}

// ScoreLastDecision sets the score of the most recent decision, once the
// configuration it produced can be evaluated.
func (c *ParseConfiguration) ScoreLastDecision(score float64) {
	if len(c.decisions) == 0 {
		return
	}
	c.decisions[len(c.decisions)-1].Score = score
	c.scoreCached = false
}

func (c *ParseConfiguration) LastTransition() Transition {
	if len(c.transitions) == 0 {
		return nil
	}
	return c.transitions[len(c.transitions)-1]
}

// Score is computed by the scoring strategy on first access.
func (c *ParseConfiguration) Score() float64 {
	if !c.scoreCached {
		c.score = c.scoring.Score(c.decisions)
		c.scoreCached = true
	}
	return c.score
}

func (c *ParseConfiguration) ComparisonIndex() int {
	if !c.indexCached {
		c.comparisonIndex = c.comparison.ComparisonIndex(c)
		c.indexCached = true
	}
	return c.comparisonIndex
}

func (c *ParseConfiguration) SetComparisonIndex(index int) {
	c.comparisonIndex = index
	c.indexCached = true
}

// Less orders configurations by descending score; ties go to the
// configuration created first.
func (c *ParseConfiguration) Less(other *ParseConfiguration) bool {
	if c.Score() != other.Score() {
		return c.Score() > other.Score()
	}
	return c.sequence < other.sequence
}

// CachedFeature returns a feature result stored by CacheFeature.
func (c *ParseConfiguration) CachedFeature(name string) (value string, present, cached bool) {
	result, cached := c.features[name]
	return result.value, result.present, cached
}

func (c *ParseConfiguration) CacheFeature(name, value string, present bool) {
	if c.features == nil {
		c.features = make(map[string]featureResult)
	}
	c.features[name] = featureResult{value, present}
}

// ParseTree returns the dependency tree rooted at ROOT. Tokens left
// unattached by a partial parse do not appear in it.
func (c *ParseConfiguration) ParseTree() *DependencyNode {
	if c.tree == nil {
		c.tree = NewDependencyNode(c.Root(), "", c)
		c.tree.AutoPopulate()
	}
	return c.tree
}

// IsPrefixOf reports whether the transitions of c start the derivation of other.
func (c *ParseConfiguration) IsPrefixOf(other *ParseConfiguration) bool {
	if len(c.transitions) > len(other.transitions) {
		return false
	}
	for i, t := range c.transitions {
		if t.Code() != other.transitions[i].Code() {
			return false
		}
	}
	return true
}

// OUTPUT FUNCTIONS

func (c *ParseConfiguration) String() string {
	transitionVal := ""
	if last := c.LastTransition(); last != nil {
		transitionVal = last.Code()
	}
	return fmt.Sprintf("%s\t=>([%s],\t[%s],\t%s)",
		transitionVal, c.StringStack(), c.StringBuffer(), c.StringArcs())
}

// StringStack prints the stack bottom first, eliding the middle of long stacks.
func (c *ParseConfiguration) StringStack() string {
	stackSize := c.stack.Size()
	switch {
	case stackSize > 0 && stackSize <= 3:
		stackStrings := make([]string, 0, 3)
		for i := stackSize - 1; i >= 0; i-- {
			stackStrings = append(stackStrings, c.StackAt(i).Form)
		}
		return strings.Join(stackStrings, ",")
	case stackSize > 3:
		return strings.Join([]string{c.StackAt(stackSize - 1).Form, "...", c.StackTop().Form}, ",")
	default:
		return ""
	}
}

func (c *ParseConfiguration) StringBuffer() string {
	bufferSize := c.buffer.Size()
	switch {
	case bufferSize > 0 && bufferSize <= 3:
		bufferStrings := make([]string, 0, 3)
		for i := 0; i < bufferSize; i++ {
			bufferStrings = append(bufferStrings, c.BufferAt(i).Form)
		}
		return strings.Join(bufferStrings, ",")
	case bufferSize > 3:
		return strings.Join([]string{c.BufferHead().Form, "...", c.BufferAt(bufferSize - 1).Form}, ",")
	default:
		return ""
	}
}

func (c *ParseConfiguration) StringArcs() string {
	last := c.LastTransition()
	if last == nil || last.Label() == "" || len(c.arcs) == 0 {
		return fmt.Sprintf("A%d", len(c.arcs))
	}
	lastArc := c.arcs[len(c.arcs)-1]
	arcStr := fmt.Sprintf("(%s,%s,%s)", lastArc.Head.Form, lastArc.Label, lastArc.Dependent.Form)
	return fmt.Sprintf("A%d=A%d+{%s}", len(c.arcs), len(c.arcs)-1, arcStr)
}
