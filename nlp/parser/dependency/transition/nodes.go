package transition

import (
	"sort"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

// arcNode caches the arcs touching one token. Nodes are shared between a
// configuration and its forks, so they are copied before any change.
type arcNode struct {
	governor   *nlp.DependencyArc
	transition Transition
	// dependent token indices, ascending
	leftMods, rightMods []int
}

func (a *arcNode) copy() *arcNode {
	newNode := &arcNode{
		governor:   a.governor,
		transition: a.transition,
	}
	if len(a.leftMods) > 0 {
		newNode.leftMods = make([]int, len(a.leftMods), len(a.leftMods)+1)
		copy(newNode.leftMods, a.leftMods)
	}
	if len(a.rightMods) > 0 {
		newNode.rightMods = make([]int, len(a.rightMods), len(a.rightMods)+1)
		copy(newNode.rightMods, a.rightMods)
	}
	return newNode
}

func (a *arcNode) addModifier(head, mod int) {
	if mod < head {
		sortedInsertion(&a.leftMods, mod)
	} else {
		sortedInsertion(&a.rightMods, mod)
	}
}

func sortedInsertion(slice *[]int, value int) {
	pos := sort.SearchInts(*slice, value)
	if pos < len(*slice) && (*slice)[pos] == value {
		return
	}
	*slice = append(*slice, 0)
	copy((*slice)[pos+1:], (*slice)[pos:])
	(*slice)[pos] = value
}
