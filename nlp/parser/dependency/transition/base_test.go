package transition

import (
	"testing"

	"github.com/stretchr/testify/require"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

var rawTestSent = [][2]string{
	{"Economic", "NN"},
	{"news", "NN"},
	{"had", "VB"},
	{"little", "ADJ"},
	{"effect", "NN"},
	{"on", "NN"},
	{"financial", "NN"},
	{"markets", "NN"},
	{".", "yyDOT"},
}

type rawArc struct {
	Head     int
	Relation nlp.DepRel
	Modifier int
}

// projective gold tree of rawTestSent; 0 is ROOT
var rawArcs = []rawArc{
	{Head: 2, Relation: "ATT", Modifier: 1},
	{Head: 3, Relation: "SBJ", Modifier: 2},
	{Head: 0, Relation: nlp.RootLabel, Modifier: 3},
	{Head: 5, Relation: "ATT", Modifier: 4},
	{Head: 3, Relation: "OBJ", Modifier: 5},
	{Head: 5, Relation: "ATT", Modifier: 6},
	{Head: 8, Relation: "ATT", Modifier: 7},
	{Head: 6, Relation: "PC", Modifier: 8},
	{Head: 3, Relation: "PU", Modifier: 9},
}

var TEST_RELATIONS = []nlp.DepRel{"ATT", "SBJ", "PC", "OBJ", "PU", "PRED", nlp.RootLabel}

func testSentence(t *testing.T, raw [][2]string) nlp.PosTagSequence {
	forms := make([]string, len(raw))
	tags := make([]string, len(raw))
	for i, token := range raw {
		forms[i], tags[i] = token[0], token[1]
	}
	seq, err := nlp.NewPosTagSequence(forms, tags)
	require.NoError(t, err)
	return seq
}

func testArcs(conf *ParseConfiguration, raw []rawArc) []*nlp.DependencyArc {
	arcs := make([]*nlp.DependencyArc, len(raw))
	for i, arc := range raw {
		arcs[i] = nlp.NewDependencyArc(conf.Token(arc.Head), conf.Token(arc.Modifier), arc.Relation)
	}
	return arcs
}

func arcKeys(arcs []*nlp.DependencyArc) []nlp.ArcKey {
	keys := make([]nlp.ArcKey, len(arcs))
	for i, arc := range arcs {
		keys[i] = arc.Key()
	}
	return keys
}

func codes(transitions []Transition) []string {
	retval := make([]string, len(transitions))
	for i, t := range transitions {
		retval[i] = t.Code()
	}
	return retval
}

// replay applies codes to a fresh configuration of seq.
func replay(t *testing.T, system TransitionSystem, seq nlp.PosTagSequence, codes []string) *ParseConfiguration {
	conf := NewConfiguration(seq)
	for _, code := range codes {
		transition, err := system.TransitionByCode(code)
		require.NoError(t, err)
		require.NoError(t, Apply(conf, transition), "applying %s to %s", code, conf)
	}
	return conf
}

// assertAcyclic walks every governor chain of conf.
func assertAcyclic(t *testing.T, conf *ParseConfiguration) {
	for _, token := range conf.Sentence() {
		seen := map[int]bool{}
		for current := token; current != nil; current = conf.Head(current) {
			require.False(t, seen[current.Index], "cycle through %v", current)
			seen[current.Index] = true
		}
	}
}

func assertSingleGovernor(t *testing.T, conf *ParseConfiguration) {
	governed := map[int]bool{}
	for _, arc := range conf.Dependencies() {
		require.False(t, governed[arc.Dependent.Index], "%v has two governors", arc.Dependent)
		governed[arc.Dependent.Index] = true
	}
	require.False(t, governed[0], "ROOT is governed")
}

func forms(tokens []*nlp.Token) []string {
	retval := make([]string, len(tokens))
	for i, token := range tokens {
		retval[i] = token.Form
	}
	return retval
}
