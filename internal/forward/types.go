package forward

import (
	"errors"

	"github.com/stub-enhancer/predictor/internal/topology"
)

// ErrInputShape is returned when the input length differs from the input layer width.
var ErrInputShape = errors.New("input vector length does not match input layer")

// #region result

// Result holds every node's value for one evaluation. Each call returns fresh maps.
type Result struct {
	Values         map[string]float64 // post-activation; inputs verbatim
	PreActivations map[string]float64 // weighted sum plus bias, non-input nodes only
	Layers         [][]string         // evaluation order; aliases the topology, never modify
}

// Outputs returns the output layer values in layer order.
func (r *Result) Outputs() []float64 {
	ids := r.Layers[len(r.Layers)-1]
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = r.Values[id]
	}
	return out
}

// Output returns the first output node's value, the prediction for a single-output network.
func (r *Result) Output() float64 {
	return r.Values[r.Layers[len(r.Layers)-1][0]]
}

// Annotate returns a copy of topo with node values filled in.
// The shared topology is never modified.
func (r *Result) Annotate(topo *topology.Topology) *topology.Topology {
	c := topo.Clone()
	for i := range c.Nodes {
		c.Nodes[i].Value = r.Values[c.Nodes[i].ID]
	}
	return c
}

// #endregion result
