package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

const testRules = `
- name: punct
  transition: RightArc[PU]
  condition:
    stack0: VB
    buffer0: PONCT
- name: no-left-punct
  transition: LeftArc[PU]
  negative: true
  condition:
    buffer0: PONCT
- transition: Shift
  negative: true
  condition:
    stack0: NN|NNS
    buffer1: "-"
`

func testSystem() transition.TransitionSystem {
	return transition.NewArcEager([]nlp.DepRel{"PU", "SBJ"})
}

func configuration(t *testing.T, tags ...string) *transition.ParseConfiguration {
	forms := make([]string, len(tags))
	for i := range tags {
		forms[i] = strings.ToLower(tags[i])
	}
	seq, err := nlp.NewPosTagSequence(forms, tags)
	require.NoError(t, err)
	return transition.NewConfiguration(seq)
}

func TestLoadRules(t *testing.T) {
	set, err := LoadRules(strings.NewReader(testRules), testSystem())
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	assert.Equal(t, "+punct:RightArc[PU]", set.Rules[0].String())
	assert.Equal(t, "!rule2:Shift", set.Rules[2].String())

	_, err = LoadRules(strings.NewReader("- transition: LeftArc[OBJ]\n"), testSystem())
	var unknown *transition.UnknownLabelError
	assert.True(t, errors.As(err, &unknown), "got %v", err)

	empty, err := LoadRules(strings.NewReader(""), testSystem())
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestPositiveRule(t *testing.T) {
	set, err := LoadRules(strings.NewReader(testRules), testSystem())
	require.NoError(t, err)

	conf := configuration(t, "VB", "PONCT")
	assert.Nil(t, set.Positive(conf), "stack top is ROOT")
	require.NoError(t, transition.Apply(conf, transition.Shift{}))
	rule := set.Positive(conf)
	require.NotNil(t, rule)
	assert.Equal(t, "punct", rule.Name)

	var nilSet *RuleSet
	assert.Nil(t, nilSet.Positive(conf))
}

func TestNegativeRules(t *testing.T) {
	set, err := LoadRules(strings.NewReader(testRules), testSystem())
	require.NoError(t, err)
	system := testSystem()

	conf := configuration(t, "NN", "PONCT", "VB")
	require.NoError(t, transition.Apply(conf, transition.Shift{}))
	// stack [ROOT nn], buffer [ponct vb]
	candidates := []transition.Transition{
		transition.Shift{},
		transition.LeftArc{Relation: "PU"},
		transition.LeftArc{Relation: "SBJ"},
	}
	filtered := set.Negative(conf, candidates)
	assert.Equal(t, []transition.Transition{transition.Shift{}, transition.LeftArc{Relation: "SBJ"}}, filtered)

	onlyForbidden := []transition.Transition{transition.LeftArc{Relation: "PU"}}
	assert.Equal(t, onlyForbidden, set.Negative(conf, onlyForbidden), "never filters out every candidate")

	// NN stack top with nothing after the buffer front: no Shift
	conf2 := configuration(t, "NN", "VB")
	require.NoError(t, transition.Apply(conf2, transition.Shift{}))
	assert.Equal(t, system.Transitions()[1:], set.Negative(conf2, system.Transitions()))
}

func TestTagCondition(t *testing.T) {
	conf := configuration(t, "NN", "VB")
	assert.True(t, TagCondition{}.Check(conf))
	assert.True(t, TagCondition{Stack0: "ROOT", Buffer0: "NN", Buffer1: "VB"}.Check(conf))
	assert.True(t, TagCondition{Stack1: ABSENT}.Check(conf))
	assert.False(t, TagCondition{Stack1: "NN"}.Check(conf))
	assert.True(t, TagCondition{Buffer0: "JJ|NN"}.Check(conf))
	assert.False(t, TagCondition{Buffer0: ABSENT}.Check(conf))
}
