package forward

import (
	"fmt"

	"github.com/stub-enhancer/predictor/internal/params"
	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region reference

// Evaluate runs the forward pass by node-id lookups against table.
// Layers are processed in order; within a node, inputs are summed in layer insertion order.
// Every non-input node, the output included, goes through ReLU.
func Evaluate(input []float64, topo *topology.Topology, table *params.Table) (*Result, error) {
	if len(input) != len(topo.Layers[0]) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputShape, len(input), len(topo.Layers[0]))
	}

	res := newResult(topo)
	for i, id := range topo.Layers[0] {
		res.Values[id] = input[i]
	}

	for k := 1; k < len(topo.Layers); k++ {
		prev := topo.Layers[k-1]
		for _, id := range topo.Layers[k] {
			var sum float64
			for _, src := range prev {
				w, err := table.Weight(src, id)
				if err != nil {
					return nil, err
				}
				sum += float64(res.Values[src] * w) // rounded product: no FMA fusion
			}
			b, err := table.Bias(id)
			if err != nil {
				return nil, err
			}
			pre := sum + b
			res.PreActivations[id] = pre
			res.Values[id] = relu(pre)
		}
	}
	return res, nil
}

// #endregion reference

// #region helpers

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func newResult(topo *topology.Topology) *Result {
	return &Result{
		Values:         make(map[string]float64, len(topo.Nodes)),
		PreActivations: make(map[string]float64, len(topo.Nodes)-len(topo.Layers[0])),
		Layers:         topo.Layers,
	}
}

// #endregion helpers
