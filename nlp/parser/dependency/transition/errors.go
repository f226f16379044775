package transition

import (
	"errors"
	"fmt"
	"strings"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

var ErrMultipleGovernors = errors.New("dependent already has a governor")

// InvalidTransitionError is returned when a transition is applied to a
// configuration that does not satisfy its preconditions.
type InvalidTransitionError struct {
	Code          string
	Configuration string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s to configuration %s", e.Code, e.Configuration)
}

// CycleError is returned when the head of a new arc is already governed,
// directly or transitively, by its dependent.
type CycleError struct {
	Head, Dependent *nlp.Token
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("arc %v->%v would create a cycle", e.Head, e.Dependent)
}

// OracleUnreachableError is returned when the gold arcs cannot be produced
// by the transition system from the given configuration.
type OracleUnreachableError struct {
	System    string
	Reason    string
	Remaining []*nlp.DependencyArc
}

func (e *OracleUnreachableError) Error() string {
	if len(e.Remaining) == 0 {
		return fmt.Sprintf("%s oracle: %s", e.System, e.Reason)
	}
	arcs := make([]string, len(e.Remaining))
	for i, arc := range e.Remaining {
		arcs[i] = arc.String()
	}
	return fmt.Sprintf("%s oracle: %s: [%s]", e.System, e.Reason, strings.Join(arcs, ", "))
}

type UnknownTransitionError struct {
	System string
	Code   string
}

func (e *UnknownTransitionError) Error() string {
	return fmt.Sprintf("unknown transition %q in %s", e.Code, e.System)
}

type UnknownLabelError struct {
	System string
	Label  nlp.DepRel
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown dependency label %q in %s", string(e.Label), e.System)
}
