package transition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

var TEST_EAGER_TRANSITIONS = []string{
	"Shift",
	"LeftArc[ATT]",
	"Shift",
	"LeftArc[SBJ]",
	"RightArc[root]",
	"Shift",
	"LeftArc[ATT]",
	"RightArc[OBJ]",
	"RightArc[ATT]",
	"Shift",
	"LeftArc[ATT]",
	"RightArc[PC]",
	"Reduce",
	"Reduce",
	"Reduce",
	"RightArc[PU]",
}

func TestArcEagerOracle(t *testing.T) {
	system := NewArcEager(TEST_RELATIONS)
	seq := testSentence(t, rawTestSent)
	conf := NewConfiguration(seq)
	gold := testArcs(conf, rawArcs)

	require.NoError(t, system.PredictTransitions(conf, gold))
	if diff := cmp.Diff(TEST_EAGER_TRANSITIONS, codes(conf.Transitions())); diff != "" {
		t.Fatalf("oracle transitions mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, conf.IsTerminal())
	assert.Equal(t, []string{".", "had", "ROOT"}, forms(conf.StackTokens()))
	assert.ElementsMatch(t, arcKeys(gold), arcKeys(conf.Dependencies()))

	t.Run("round trip", func(t *testing.T) {
		replayed := replay(t, system, seq, TEST_EAGER_TRANSITIONS)
		if diff := cmp.Diff(arcKeys(conf.Dependencies()), arcKeys(replayed.Dependencies())); diff != "" {
			t.Errorf("replayed arcs mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestArcEagerMinimal(t *testing.T) {
	system := NewArcEager([]nlp.DepRel{"obj"})
	conf := NewConfiguration(testSentence(t, [][2]string{{"A", "N"}, {"B", "N"}}))
	gold := []*nlp.DependencyArc{nlp.NewDependencyArc(conf.Token(1), conf.Token(2), "obj")}

	require.NoError(t, system.PredictTransitions(conf, gold))
	assert.Equal(t, []string{"Shift", "RightArc[obj]"}, codes(conf.Transitions()))
	require.Equal(t, 1, conf.NumberOfArcs())
	arc := conf.Dependencies()[0]
	assert.Equal(t, "A", arc.Head.Form)
	assert.Equal(t, "B", arc.Dependent.Form)
	assert.Equal(t, nlp.DepRel("obj"), arc.Label)
	assert.True(t, conf.IsTerminal())
}

func TestArcEagerNonProjective(t *testing.T) {
	system := NewArcEager([]nlp.DepRel{"a"})
	conf := NewConfiguration(testSentence(t, [][2]string{{"A", "N"}, {"B", "N"}, {"C", "N"}, {"D", "N"}}))
	// A->C crosses B->D
	gold := []*nlp.DependencyArc{
		nlp.NewDependencyArc(conf.Root(), conf.Token(1), "a"),
		nlp.NewDependencyArc(conf.Token(1), conf.Token(3), "a"),
		nlp.NewDependencyArc(conf.Token(1), conf.Token(2), "a"),
		nlp.NewDependencyArc(conf.Token(2), conf.Token(4), "a"),
	}
	err := system.PredictTransitions(conf, gold)
	var unreachable *OracleUnreachableError
	require.True(t, errors.As(err, &unreachable), "got %v", err)
	assert.NotEmpty(t, unreachable.Remaining)
	assert.Equal(t, ARC_EAGER, unreachable.System)
}

func TestArcEagerBadGold(t *testing.T) {
	system := NewArcEager([]nlp.DepRel{"a"})
	seq := testSentence(t, [][2]string{{"A", "N"}, {"B", "N"}})

	t.Run("two governors", func(t *testing.T) {
		conf := NewConfiguration(seq)
		err := system.PredictTransitions(conf, []*nlp.DependencyArc{
			nlp.NewDependencyArc(conf.Root(), conf.Token(2), "a"),
			nlp.NewDependencyArc(conf.Token(1), conf.Token(2), "a"),
		})
		var unreachable *OracleUnreachableError
		require.True(t, errors.As(err, &unreachable), "got %v", err)
		assert.Len(t, unreachable.Remaining, 2)
		assert.Empty(t, conf.Transitions())
	})

	t.Run("governed root", func(t *testing.T) {
		conf := NewConfiguration(seq)
		err := system.PredictTransitions(conf, []*nlp.DependencyArc{
			nlp.NewDependencyArc(conf.Token(1), conf.Root(), "a"),
		})
		var unreachable *OracleUnreachableError
		assert.True(t, errors.As(err, &unreachable), "got %v", err)
	})

	t.Run("unknown label", func(t *testing.T) {
		conf := NewConfiguration(seq)
		err := system.PredictTransitions(conf, []*nlp.DependencyArc{
			nlp.NewDependencyArc(conf.Token(1), conf.Token(2), "zzz"),
		})
		var unknown *UnknownLabelError
		require.True(t, errors.As(err, &unknown), "got %v", err)
		assert.Equal(t, nlp.DepRel("zzz"), unknown.Label)
	})
}
