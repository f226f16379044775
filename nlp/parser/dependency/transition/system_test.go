package transition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

func TestNewTransitionSystem(t *testing.T) {
	labels := []nlp.DepRel{"a", "b", "a"}

	eager, err := NewTransitionSystem(ARC_EAGER, labels)
	require.NoError(t, err)
	assert.Equal(t, ARC_EAGER, eager.Name())
	assert.Equal(t, []nlp.DepRel{"a", "b"}, eager.Labels())
	assert.Equal(t, []string{
		"Shift", "Reduce", "LeftArc[a]", "LeftArc[b]", "RightArc[a]", "RightArc[b]",
	}, codes(eager.Transitions()))
	assert.IsType(t, RightArcEager{}, eager.Transitions()[4])

	classic, err := NewTransitionSystem(SHIFT_REDUCE, labels)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Shift", "LeftArc[a]", "LeftArc[b]", "RightArc[a]", "RightArc[b]",
	}, codes(classic.Transitions()))
	assert.IsType(t, RightArc{}, classic.Transitions()[3])

	_, err = NewTransitionSystem("ArcHybrid", labels)
	assert.Error(t, err)
}

func TestTransitionByCode(t *testing.T) {
	for _, system := range []TransitionSystem{NewArcEager(TEST_RELATIONS), NewShiftReduce(TEST_RELATIONS)} {
		t.Run(system.Name(), func(t *testing.T) {
			for _, expected := range system.Transitions() {
				found, err := system.TransitionByCode(expected.Code())
				require.NoError(t, err)
				assert.Equal(t, expected, found)
			}

			_, err := system.TransitionByCode("Jump")
			var unknown *UnknownTransitionError
			assert.True(t, errors.As(err, &unknown), "got %v", err)

			_, err = system.TransitionByCode("LeftArc[nope]")
			var unknownLabel *UnknownLabelError
			assert.True(t, errors.As(err, &unknownLabel), "got %v", err)
		})
	}

	_, err := NewShiftReduce(TEST_RELATIONS).TransitionByCode(REDUCE)
	var unknown *UnknownTransitionError
	assert.True(t, errors.As(err, &unknown), "Reduce is not a shift-reduce transition")
}
