package topology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// #region types

// LayerSizes lists the node count of every layer, input first.
type LayerSizes []int

// String renders sizes as "8-25-10-1".
func (s LayerSizes) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// DefaultLayerSizes is the shape of the salary network: 8 inputs, two hidden layers, one output.
var DefaultLayerSizes = LayerSizes{8, 25, 10, 1}

// ErrInvalidLayerSizes is returned by Build for an unusable layer configuration.
var ErrInvalidLayerSizes = errors.New("invalid layer sizes")

// Position is rendering metadata only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one unit of the network graph.
type Node struct {
	ID       string
	Label    string
	Layer    int // 0 = input
	Index    int // position within its layer
	Position Position
	Value    float64 // only meaningful on a copy returned by an evaluation
}

// Edge is a directed link from layer k to layer k+1.
type Edge struct {
	Source string
	Target string
}

// Topology is the static layered graph. It is never mutated after Build.
type Topology struct {
	Sizes        LayerSizes
	Nodes        []Node     // all nodes, layer by layer
	Layers       [][]string // node ids per layer, in insertion order
	EdgesByLayer [][]Edge   // EdgesByLayer[k] connects layer k to layer k+1

	index map[string]int // node id -> position in Nodes
}

// #endregion types

// #region build

const (
	baseX        = 350.0
	layerSpacing = 50.0
	centerY      = 135.0
	nodeSpacing  = 5.0
)

// Build constructs the fully connected layered graph for sizes.
// The same sizes always produce the same ids in the same order.
func Build(sizes LayerSizes) (*Topology, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidLayerSizes, len(sizes))
	}
	for k, n := range sizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: layer %d has %d nodes", ErrInvalidLayerSizes, k, n)
		}
	}

	t := &Topology{
		Sizes:  append(LayerSizes(nil), sizes...),
		Layers: make([][]string, len(sizes)),
		index:  make(map[string]int),
	}

	last := len(sizes) - 1
	for k, n := range sizes {
		ids := make([]string, n)
		top := centerY - float64(n-1)*nodeSpacing/2
		for i := 0; i < n; i++ {
			id, label := nodeName(k, last, i+1)
			ids[i] = id
			t.index[id] = len(t.Nodes)
			t.Nodes = append(t.Nodes, Node{
				ID:    id,
				Label: label,
				Layer: k,
				Index: i,
				Position: Position{
					X: baseX + float64(k)*layerSpacing,
					Y: top + float64(i)*nodeSpacing,
				},
			})
		}
		t.Layers[k] = ids
	}

	t.EdgesByLayer = make([][]Edge, last)
	for k := 0; k < last; k++ {
		edges := make([]Edge, 0, len(t.Layers[k])*len(t.Layers[k+1]))
		for _, src := range t.Layers[k] {
			for _, dst := range t.Layers[k+1] {
				edges = append(edges, Edge{Source: src, Target: dst})
			}
		}
		t.EdgesByLayer[k] = edges
	}

	return t, nil
}

// MustBuild is Build for sizes known to be valid, e.g. DefaultLayerSizes.
func MustBuild(sizes LayerSizes) *Topology {
	t, err := Build(sizes)
	if err != nil {
		panic(err)
	}
	return t
}

func nodeName(layer, last, n int) (id, label string) {
	switch layer {
	case 0:
		return fmt.Sprintf("in%d", n), fmt.Sprintf("input-node%d", n)
	case last:
		return fmt.Sprintf("out%d", n), fmt.Sprintf("output-node%d", n)
	default:
		return fmt.Sprintf("hl%dn%d", layer, n), fmt.Sprintf("hiddenlayer%d-node%d", layer, n)
	}
}

// #endregion build

// #region accessors

// Node returns the node with the given id.
func (t *Topology) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.Nodes[i], true
}

// LayerOf returns the layer index of id, or -1 if the id is unknown.
func (t *Topology) LayerOf(id string) int {
	i, ok := t.index[id]
	if !ok {
		return -1
	}
	return t.Nodes[i].Layer
}

// InputIDs returns the input layer ids.
func (t *Topology) InputIDs() []string { return t.Layers[0] }

// OutputIDs returns the output layer ids.
func (t *Topology) OutputIDs() []string { return t.Layers[len(t.Layers)-1] }

// Edges returns every edge, layer by layer.
func (t *Topology) Edges() []Edge {
	var all []Edge
	for _, layer := range t.EdgesByLayer {
		all = append(all, layer...)
	}
	return all
}

// NumEdges counts edges without materializing them.
func (t *Topology) NumEdges() int {
	n := 0
	for _, layer := range t.EdgesByLayer {
		n += len(layer)
	}
	return n
}

// Clone returns a deep copy. Per-request value annotation happens on clones, never on a shared instance.
func (t *Topology) Clone() *Topology {
	c := &Topology{
		Sizes:        append(LayerSizes(nil), t.Sizes...),
		Nodes:        append([]Node(nil), t.Nodes...),
		Layers:       make([][]string, len(t.Layers)),
		EdgesByLayer: make([][]Edge, len(t.EdgesByLayer)),
		index:        make(map[string]int, len(t.index)),
	}
	for k, ids := range t.Layers {
		c.Layers[k] = append([]string(nil), ids...)
	}
	for k, edges := range t.EdgesByLayer {
		c.EdgesByLayer[k] = append([]Edge(nil), edges...)
	}
	for id, i := range t.index {
		c.index[id] = i
	}
	return c
}

// #endregion accessors
