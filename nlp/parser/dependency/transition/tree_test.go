package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

func goldTree(t *testing.T) (*ParseConfiguration, *DependencyNode) {
	conf := NewConfiguration(testSentence(t, rawTestSent))
	require.NoError(t, NewArcEager(TEST_RELATIONS).PredictTransitions(conf, testArcs(conf, rawArcs)))
	return conf, conf.ParseTree()
}

func TestParseTree(t *testing.T) {
	conf, root := goldTree(t)
	assert.Same(t, root, conf.ParseTree(), "tree is cached")
	assert.True(t, root.Token.IsRoot())
	require.Len(t, root.Dependents, 1)

	had := root.Dependents[0]
	assert.Equal(t, "had", had.Token.Form)
	assert.Equal(t, nlp.RootLabel, had.Label)
	assert.Same(t, root, had.Parent)
	assert.Equal(t, []string{"news", "effect", "."}, nodeForms(had.Dependents))

	assert.Equal(t, 6, root.Depth())
	assert.Equal(t, 5, had.Depth())
	assert.Equal(t, 4, root.PerceivedDepth(map[nlp.DepRel]bool{"ATT": true}))

	effect := root.Find(conf.Token(5))
	require.NotNil(t, effect)
	assert.Equal(t, "little", effect.FirstToken().Form)
	assert.Equal(t, "markets", effect.LastToken().Form)
	assert.True(t, effect.IsContiguous())
	assert.True(t, root.IsContiguous())
}

func TestRemoveNode(t *testing.T) {
	conf, root := goldTree(t)
	clone := root.Clone()

	on := root.Find(conf.Token(6))
	require.NotNil(t, on)
	assert.True(t, root.RemoveNode(on))
	assert.Nil(t, on.Parent)
	assert.Nil(t, root.Find(conf.Token(8)), "the subtree goes with the node")
	assert.False(t, root.RemoveNode(on))

	had := root.Dependents[0]
	assert.False(t, had.IsContiguous())
	assert.True(t, root.Find(conf.Token(5)).IsContiguous())

	assert.NotNil(t, clone.Find(conf.Token(8)), "clones are independent")
	assert.Nil(t, clone.Parent)
	assert.Same(t, clone, clone.Dependents[0].Parent)
	assert.Equal(t, 6, clone.Depth())
}

func TestDependencyNodeString(t *testing.T) {
	conf := NewConfiguration(testSentence(t, [][2]string{{"A", "N"}, {"B", "V"}}))
	_, err := conf.AddDependency(conf.Root(), conf.Token(1), nlp.RootLabel, RightArcEager{nlp.RootLabel})
	require.NoError(t, err)
	_, err = conf.AddDependency(conf.Token(1), conf.Token(2), "obj", RightArcEager{"obj"})
	require.NoError(t, err)
	assert.Equal(t, "ROOT(root:A/N(obj:B/V))", conf.ParseTree().String())
}

func TestPartialTree(t *testing.T) {
	conf := NewConfiguration(testSentence(t, [][2]string{{"A", "N"}, {"B", "V"}}))
	_, err := conf.AddDependency(conf.Token(1), conf.Token(2), "obj", RightArcEager{"obj"})
	require.NoError(t, err)
	tree := conf.ParseTree()
	assert.Empty(t, tree.Dependents, "unattached tokens are not in the tree")
	assert.Equal(t, 1, tree.Depth())
}

func nodeForms(nodes []*DependencyNode) []string {
	retval := make([]string, len(nodes))
	for i, node := range nodes {
		retval[i] = node.Token.Form
	}
	return retval
}
