package constrainer

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
	"github.com/joliciel-informatique/talismane-sub002/storage"
)

var labels = []nlp.DepRel{"obj", "suj", nlp.RootLabel}

// trained returns a constrainer fed the oracle derivation of "Jean mange
// pomme": suj(mange, Jean), root(ROOT, mange), obj(mange, pomme).
func trained(t *testing.T) (*Constrainer, transition.TransitionSystem, nlp.PosTagSequence) {
	system := transition.NewArcEager(labels)
	seq, err := nlp.NewPosTagSequence([]string{"Jean", "mange", "pomme"}, []string{"NPP", "V", "NC"})
	require.NoError(t, err)
	conf := transition.NewConfiguration(seq)
	gold := []*nlp.DependencyArc{
		nlp.NewDependencyArc(conf.Token(2), conf.Token(1), "suj"),
		nlp.NewDependencyArc(conf.Root(), conf.Token(2), nlp.RootLabel),
		nlp.NewDependencyArc(conf.Token(2), conf.Token(3), "obj"),
	}
	require.NoError(t, system.PredictTransitions(conf, gold))

	c := New(system)
	require.NoError(t, c.OnNextParseConfiguration(conf))
	return c, system, seq
}

func TestContextKey(t *testing.T) {
	seq, err := nlp.NewPosTagSequence([]string{"Jean"}, []string{"NPP"})
	require.NoError(t, err)
	conf := transition.NewConfiguration(seq)
	assert.Equal(t, "ROOT|NPP", ContextKey(conf))
	require.NoError(t, transition.Apply(conf, transition.Shift{}))
	assert.Equal(t, "NPP|", ContextKey(conf))
}

func TestPossibleTransitions(t *testing.T) {
	c, system, seq := trained(t)
	// Shift (ROOT|NPP), LeftArc[suj] (NPP|V), RightArc[root] (ROOT|V), RightArc[obj] (V|NC)
	assert.Equal(t, 4, c.Contexts())

	conf := transition.NewConfiguration(seq)
	assert.Equal(t, []transition.Transition{transition.Shift{}}, c.PossibleTransitions(conf))

	require.NoError(t, transition.Apply(conf, transition.Shift{}))
	assert.Equal(t, []transition.Transition{transition.LeftArc{Relation: "suj"}}, c.PossibleTransitions(conf))

	unseen, err := nlp.NewPosTagSequence([]string{"vite"}, []string{"ADV"})
	require.NoError(t, err)
	assert.Equal(t, system.Transitions(), c.PossibleTransitions(transition.NewConfiguration(unseen)), "unseen contexts fail open")
}

func TestAccumulatesInSystemOrder(t *testing.T) {
	c, _, seq := trained(t)
	// a second derivation attaching Jean to ROOT directly
	conf := transition.NewConfiguration(seq)
	require.NoError(t, transition.Apply(conf, transition.RightArcEager{Relation: nlp.RootLabel}))
	require.NoError(t, c.OnNextParseConfiguration(conf))

	initial := transition.NewConfiguration(seq)
	assert.Equal(t, []transition.Transition{
		transition.Shift{},
		transition.RightArcEager{Relation: nlp.RootLabel},
	}, c.PossibleTransitions(initial))
	assert.Equal(t, 4, c.Contexts())
	assert.Equal(t, transition.ARC_EAGER, c.System().Name())
}

func TestRoundTrip(t *testing.T) {
	c, system, _ := trained(t)

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	data := buf.Bytes()

	read, err := Read(bytes.NewReader(data), system)
	require.NoError(t, err)
	if diff := cmp.Diff(c.serialize(), read.serialize()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	rebuilt, err := Read(bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, system.Transitions(), rebuilt.System().Transitions())
	if diff := cmp.Diff(c.serialize(), rebuilt.serialize()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = Read(bytes.NewReader(data), transition.NewShiftReduce(labels))
	assert.Error(t, err, "system mismatch")
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	c, system, _ := trained(t)
	store := storage.NewFileStore(t.TempDir())

	require.NoError(t, c.Save(ctx, store, "constrainer.zip"))
	loaded, err := Load(ctx, store, "constrainer.zip", system)
	require.NoError(t, err)
	assert.Equal(t, c.Contexts(), loaded.Contexts())

	_, err = Load(ctx, store, "missing.zip", system)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
