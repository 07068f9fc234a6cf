package topology

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region build-tests
func TestBuildDefaultShape(t *testing.T) {
	topo, err := Build(DefaultLayerSizes)
	require.NoError(t, err)

	require.Len(t, topo.Layers, 4)
	assert.Len(t, topo.Layers[0], 8)
	assert.Len(t, topo.Layers[1], 25)
	assert.Len(t, topo.Layers[2], 10)
	assert.Len(t, topo.Layers[3], 1)
	assert.Len(t, topo.Nodes, 44)
	assert.Equal(t, 460, topo.NumEdges())
	assert.Len(t, topo.Edges(), 460)
}

func TestBuildEdgesConnectAdjacentLayersOnly(t *testing.T) {
	topo := MustBuild(DefaultLayerSizes)

	seen := make(map[Edge]bool)
	for k, edges := range topo.EdgesByLayer {
		assert.Len(t, edges, len(topo.Layers[k])*len(topo.Layers[k+1]))
		for _, e := range edges {
			assert.Equal(t, k, topo.LayerOf(e.Source), "edge %v source layer", e)
			assert.Equal(t, k+1, topo.LayerOf(e.Target), "edge %v target layer", e)
			assert.False(t, seen[e], "duplicate edge %v", e)
			seen[e] = true
		}
	}
}

func TestBuildIDsAndLabels(t *testing.T) {
	topo := MustBuild(DefaultLayerSizes)

	assert.Equal(t, []string{"in1", "in2", "in3", "in4", "in5", "in6", "in7", "in8"}, topo.InputIDs())
	assert.Equal(t, []string{"out1"}, topo.OutputIDs())
	assert.Equal(t, "hl1n1", topo.Layers[1][0])
	assert.Equal(t, "hl1n25", topo.Layers[1][24])
	assert.Equal(t, "hl2n10", topo.Layers[2][9])

	n, ok := topo.Node("hl2n3")
	require.True(t, ok)
	assert.Equal(t, "hiddenlayer2-node3", n.Label)
	assert.Equal(t, 2, n.Layer)
	assert.Equal(t, 2, n.Index)
	assert.Equal(t, 450.0, n.Position.X)

	_, ok = topo.Node("nope")
	assert.False(t, ok)
	assert.Equal(t, -1, topo.LayerOf("nope"))
}

func TestBuildIsDeterministic(t *testing.T) {
	a := MustBuild(DefaultLayerSizes)
	b := MustBuild(DefaultLayerSizes)

	if diff := cmp.Diff(a.Layers, b.Layers); diff != "" {
		t.Fatalf("layers differ (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a.EdgesByLayer, b.EdgesByLayer); diff != "" {
		t.Fatalf("edges differ (-a +b):\n%s", diff)
	}
}

func TestBuildEdgeOrderSourceMajor(t *testing.T) {
	topo := MustBuild(LayerSizes{2, 3, 1})

	want := [][]Edge{
		{
			{"in1", "hl1n1"}, {"in1", "hl1n2"}, {"in1", "hl1n3"},
			{"in2", "hl1n1"}, {"in2", "hl1n2"}, {"in2", "hl1n3"},
		},
		{
			{"hl1n1", "out1"}, {"hl1n2", "out1"}, {"hl1n3", "out1"},
		},
	}
	if diff := cmp.Diff(want, topo.EdgesByLayer); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRejectsInvalidSizes(t *testing.T) {
	for _, sizes := range []LayerSizes{nil, {8}, {8, 0, 1}, {8, -2, 1}} {
		_, err := Build(sizes)
		assert.ErrorIs(t, err, ErrInvalidLayerSizes, "sizes %v", sizes)
	}
}

func TestBuildCopiesSizes(t *testing.T) {
	sizes := LayerSizes{3, 2, 1}
	topo := MustBuild(sizes)
	sizes[0] = 99
	assert.Equal(t, 3, topo.Sizes[0])
}

// #endregion build-tests

// #region clone-tests
func TestCloneIsIndependent(t *testing.T) {
	topo := MustBuild(DefaultLayerSizes)
	c := topo.Clone()

	c.Nodes[0].Value = 42
	c.Layers[1][0], c.Layers[1][1] = c.Layers[1][1], c.Layers[1][0]
	c.EdgesByLayer[0][0] = Edge{Source: "x", Target: "y"}

	assert.Equal(t, 0.0, topo.Nodes[0].Value)
	assert.Equal(t, "hl1n1", topo.Layers[1][0])
	assert.Equal(t, Edge{Source: "in1", Target: "hl1n1"}, topo.EdgesByLayer[0][0])

	n, ok := c.Node("out1")
	require.True(t, ok)
	assert.Equal(t, 3, n.Layer)
}

// #endregion clone-tests

func TestLayerSizesString(t *testing.T) {
	assert.Equal(t, "8-25-10-1", DefaultLayerSizes.String())
	assert.Equal(t, "", LayerSizes{}.String())
}
