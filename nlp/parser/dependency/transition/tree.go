package transition

import (
	"sort"
	"strings"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

// DependencyNode is a tree view over the arcs of a configuration. Parent is
// a back reference; a node owns its Dependents.
type DependencyNode struct {
	Token      *nlp.Token
	Label      nlp.DepRel
	Parent     *DependencyNode
	Dependents []*DependencyNode

	conf *ParseConfiguration
}

func NewDependencyNode(token *nlp.Token, label nlp.DepRel, conf *ParseConfiguration) *DependencyNode {
	return &DependencyNode{Token: token, Label: label, conf: conf}
}

// AutoPopulate recursively attaches the dependents recorded in the
// configuration the node was built from.
func (n *DependencyNode) AutoPopulate() {
	if n.conf == nil {
		return
	}
	for _, dependent := range n.conf.Dependents(n.Token) {
		arc := n.conf.GoverningDependency(dependent)
		child := NewDependencyNode(dependent, arc.Label, n.conf)
		n.AddDependent(child)
		child.AutoPopulate()
	}
}

// AddDependent inserts child keeping dependents ordered by token index.
func (n *DependencyNode) AddDependent(child *DependencyNode) {
	pos := sort.Search(len(n.Dependents), func(i int) bool {
		return n.Dependents[i].Token.Index > child.Token.Index
	})
	n.Dependents = append(n.Dependents, nil)
	copy(n.Dependents[pos+1:], n.Dependents[pos:])
	n.Dependents[pos] = child
	child.Parent = n
}

// Depth is 1 for a leaf, else 1 + the depth of the deepest dependent.
func (n *DependencyNode) Depth() int {
	max := 0
	for _, child := range n.Dependents {
		if depth := child.Depth(); depth > max {
			max = depth
		}
	}
	return max + 1
}

// PerceivedDepth is Depth where nodes attached with one of zeroDepthLabels
// do not add a level.
func (n *DependencyNode) PerceivedDepth(zeroDepthLabels map[nlp.DepRel]bool) int {
	max := 0
	for _, child := range n.Dependents {
		if depth := child.PerceivedDepth(zeroDepthLabels); depth > max {
			max = depth
		}
	}
	if zeroDepthLabels[n.Label] {
		return max
	}
	return max + 1
}

func (n *DependencyNode) FirstToken() *nlp.Token {
	first := n.Token
	n.Walk(func(node *DependencyNode) {
		if node.Token.Index < first.Index {
			first = node.Token
		}
	})
	return first
}

func (n *DependencyNode) LastToken() *nlp.Token {
	last := n.Token
	n.Walk(func(node *DependencyNode) {
		if node.Token.Index > last.Index {
			last = node.Token
		}
	})
	return last
}

// IsContiguous reports whether the subtree covers an unbroken token span.
func (n *DependencyNode) IsContiguous() bool {
	size := 0
	n.Walk(func(*DependencyNode) { size++ })
	return n.LastToken().Index-n.FirstToken().Index+1 == size
}

// Walk visits the subtree in pre-order.
func (n *DependencyNode) Walk(visit func(*DependencyNode)) {
	visit(n)
	for _, child := range n.Dependents {
		child.Walk(visit)
	}
}

// Clone deep copies the subtree. The clone has no parent.
func (n *DependencyNode) Clone() *DependencyNode {
	clone := &DependencyNode{
		Token: n.Token,
		Label: n.Label,
		conf:  n.conf,
	}
	if len(n.Dependents) > 0 {
		clone.Dependents = make([]*DependencyNode, len(n.Dependents))
		for i, child := range n.Dependents {
			childClone := child.Clone()
			childClone.Parent = clone
			clone.Dependents[i] = childClone
		}
	}
	return clone
}

// RemoveNode detaches node from wherever it sits below n.
func (n *DependencyNode) RemoveNode(node *DependencyNode) bool {
	for i, child := range n.Dependents {
		if child == node {
			n.Dependents = append(n.Dependents[:i], n.Dependents[i+1:]...)
			node.Parent = nil
			return true
		}
		if child.RemoveNode(node) {
			return true
		}
	}
	return false
}

// Find returns the node of the subtree wrapping token, or nil.
func (n *DependencyNode) Find(token *nlp.Token) *DependencyNode {
	if n.Token.Index == token.Index {
		return n
	}
	for _, child := range n.Dependents {
		if found := child.Find(token); found != nil {
			return found
		}
	}
	return nil
}

func (n *DependencyNode) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *DependencyNode) write(sb *strings.Builder) {
	if n.Label != "" {
		sb.WriteString(string(n.Label))
		sb.WriteByte(':')
	}
	sb.WriteString(n.Token.String())
	if len(n.Dependents) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, child := range n.Dependents {
		if i > 0 {
			sb.WriteByte(' ')
		}
		child.write(sb)
	}
	sb.WriteByte(')')
}
