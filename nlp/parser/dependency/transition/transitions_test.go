package transition

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPreconditions(t *testing.T) {
	conf := NewConfiguration(testSentence(t, rawTestSent))
	for _, tc := range []struct {
		transition Transition
		expected   bool
	}{
		{Shift{}, true},
		{Reduce{}, false},
		{LeftArc{"ATT"}, false},
		{RightArcEager{"ATT"}, true},
		{RightArc{"ATT"}, true},
	} {
		assert.Equal(t, tc.expected, tc.transition.CheckPreconditions(conf), tc.transition.Code())
	}
}

func TestInvalidTransition(t *testing.T) {
	conf := NewConfiguration(testSentence(t, rawTestSent))
	err := Apply(conf, Reduce{})
	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, REDUCE, invalid.Code)
	assert.Empty(t, conf.Transitions())
	assert.Equal(t, 1, conf.StackSize())
}

func TestTransitionCodes(t *testing.T) {
	assert.Equal(t, "Shift", Shift{}.Code())
	assert.Equal(t, "Reduce", Reduce{}.Code())
	assert.Equal(t, "LeftArc[obj]", LeftArc{"obj"}.Code())
	assert.Equal(t, "RightArc[obj]", RightArcEager{"obj"}.Code())
	assert.Equal(t, "RightArc[obj]", RightArc{"obj"}.Code())
	assert.Equal(t, "LeftArc", LeftArc{}.Code())

	assert.False(t, Shift{}.DoesReduce())
	assert.True(t, Reduce{}.DoesReduce())
	assert.True(t, LeftArc{}.DoesReduce())
	assert.False(t, RightArcEager{}.DoesReduce())
	assert.True(t, RightArc{}.DoesReduce())
}

func TestRightArcEffects(t *testing.T) {
	seq := testSentence(t, [][2]string{{"A", "N"}, {"B", "V"}})

	eager := NewConfiguration(seq)
	require.NoError(t, Apply(eager, Shift{}))
	require.NoError(t, Apply(eager, RightArcEager{"obj"}))
	assert.Equal(t, []string{"B", "A", "ROOT"}, forms(eager.StackTokens()))
	assert.Empty(t, eager.BufferTokens())
	assert.True(t, eager.IsTerminal())

	classic := NewConfiguration(seq)
	require.NoError(t, Apply(classic, Shift{}))
	require.NoError(t, Apply(classic, RightArc{"obj"}))
	assert.Equal(t, []string{"ROOT"}, forms(classic.StackTokens()))
	assert.Equal(t, []string{"A"}, forms(classic.BufferTokens()))
	assert.Equal(t, classic.Token(1), classic.Head(classic.Token(2)))
	assert.False(t, classic.IsTerminal())
}

// TestPreconditionSoundness walks random derivations and applies every
// transition whose preconditions hold at each step.
func TestPreconditionSoundness(t *testing.T) {
	seq := testSentence(t, rawTestSent)
	random := rand.New(rand.NewSource(42))
	for _, system := range []TransitionSystem{NewArcEager(TEST_RELATIONS[:3]), NewShiftReduce(TEST_RELATIONS[:3])} {
		t.Run(system.Name(), func(t *testing.T) {
			for walk := 0; walk < 50; walk++ {
				conf := NewConfiguration(seq)
				for !conf.IsTerminal() {
					var valid []*ParseConfiguration
					for _, transition := range system.Transitions() {
						if !transition.CheckPreconditions(conf) {
							continue
						}
						next := conf.Fork()
						require.NoError(t, Apply(next, transition), "%s on %s", transition.Code(), conf)
						assertSingleGovernor(t, next)
						assertAcyclic(t, next)
						valid = append(valid, next)
					}
					require.NotEmpty(t, valid, "no transition from %s", conf)
					conf = valid[random.Intn(len(valid))]
				}
				assert.Zero(t, conf.BufferSize())
			}
		})
	}
}
