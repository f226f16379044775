package transition

import "fmt"

// ComparisonStrategy measures how far a configuration has progressed, so
// that configurations at the same stage compete in the same beam. The
// initial configuration is always at 0.
type ComparisonStrategy interface {
	Name() string
	ComparisonIndex(conf *ParseConfiguration) int
}

func NewComparisonStrategy(name string) (ComparisonStrategy, error) {
	switch name {
	case "", "StackAndBuffer":
		return StackAndBuffer{}, nil
	case "TransitionCount":
		return TransitionCount{}, nil
	case "BufferSize":
		return BufferSize{}, nil
	case "DependencyCount":
		return DependencyCount{}, nil
	case "BufferHead":
		return BufferHead{}, nil
	}
	return nil, fmt.Errorf("unknown comparison strategy %q", name)
}

type TransitionCount struct{}

func (TransitionCount) Name() string { return "TransitionCount" }

func (TransitionCount) ComparisonIndex(conf *ParseConfiguration) int {
	return len(conf.transitions)
}

// BufferSize counts tokens that have left the buffer.
type BufferSize struct{}

func (BufferSize) Name() string { return "BufferSize" }

func (BufferSize) ComparisonIndex(conf *ParseConfiguration) int {
	return conf.Length() - conf.BufferSize()
}

// StackAndBuffer counts the work done, where a buffer token needs two
// steps and a stack token one. Every transition of both systems advances
// it by exactly one.
type StackAndBuffer struct{}

func (StackAndBuffer) Name() string { return "StackAndBuffer" }

func (StackAndBuffer) ComparisonIndex(conf *ParseConfiguration) int {
	return 2*conf.Length() + 1 - (2*conf.BufferSize() + conf.StackSize())
}

type DependencyCount struct{}

func (DependencyCount) Name() string { return "DependencyCount" }

func (DependencyCount) ComparisonIndex(conf *ParseConfiguration) int {
	return len(conf.arcs)
}

// BufferHead is the position reached in the sentence: the buffer front
// index less one, or the sentence length once the buffer is empty.
type BufferHead struct{}

func (BufferHead) Name() string { return "BufferHead" }

func (BufferHead) ComparisonIndex(conf *ParseConfiguration) int {
	if b := conf.BufferHead(); b != nil && !b.IsRoot() {
		return b.Index - 1
	}
	return conf.Length()
}
