package forward

import (
	"fmt"

	"github.com/stub-enhancer/predictor/internal/params"
	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region evaluator

// Evaluator is a validated, compiled forward pass. It is immutable and safe for concurrent use.
type Evaluator struct {
	topo   *topology.Topology
	layers []denseLayer
}

// denseLayer holds the weights into one layer, row-major by destination node.
type denseLayer struct {
	in, out int
	weights []float64 // weights[j*in+i] = w(prev[i] -> layer[j])
	biases  []float64
}

// NewEvaluator validates table against topo and compiles it into dense per-layer arrays.
// A table that does not cover the topology is a configuration error.
func NewEvaluator(topo *topology.Topology, table *params.Table) (*Evaluator, error) {
	if err := table.Validate(topo); err != nil {
		return nil, fmt.Errorf("parameter table: %w", err)
	}

	e := &Evaluator{topo: topo, layers: make([]denseLayer, len(topo.Layers)-1)}
	for k := 1; k < len(topo.Layers); k++ {
		prev, cur := topo.Layers[k-1], topo.Layers[k]
		dl := denseLayer{
			in:      len(prev),
			out:     len(cur),
			weights: make([]float64, len(prev)*len(cur)),
			biases:  make([]float64, len(cur)),
		}
		for j, dst := range cur {
			for i, src := range prev {
				w, err := table.Weight(src, dst)
				if err != nil {
					return nil, err
				}
				dl.weights[j*dl.in+i] = w
			}
			b, err := table.Bias(dst)
			if err != nil {
				return nil, err
			}
			dl.biases[j] = b
		}
		e.layers[k-1] = dl
	}
	return e, nil
}

// Topology returns the topology the evaluator was compiled for.
func (e *Evaluator) Topology() *topology.Topology { return e.topo }

// Evaluate runs the forward pass. Results are bit-identical to the package-level Evaluate.
func (e *Evaluator) Evaluate(input []float64) (*Result, error) {
	if len(input) != len(e.topo.Layers[0]) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputShape, len(input), len(e.topo.Layers[0]))
	}

	res := newResult(e.topo)
	for i, id := range e.topo.Layers[0] {
		res.Values[id] = input[i]
	}

	act := append([]float64(nil), input...)
	for k, dl := range e.layers {
		ids := e.topo.Layers[k+1]
		next := make([]float64, dl.out)
		for j := 0; j < dl.out; j++ {
			row := dl.weights[j*dl.in : (j+1)*dl.in]
			var sum float64
			for i, x := range act {
				sum += float64(x * row[i])
			}
			pre := sum + dl.biases[j]
			next[j] = relu(pre)
			res.PreActivations[ids[j]] = pre
			res.Values[ids[j]] = next[j]
		}
		act = next
	}
	return res, nil
}

// Output evaluates input and returns only the first output value, skipping the per-node maps.
func (e *Evaluator) Output(input []float64) (float64, error) {
	if len(input) != len(e.topo.Layers[0]) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrInputShape, len(input), len(e.topo.Layers[0]))
	}
	act := input
	for _, dl := range e.layers {
		next := make([]float64, dl.out)
		for j := 0; j < dl.out; j++ {
			row := dl.weights[j*dl.in : (j+1)*dl.in]
			var sum float64
			for i, x := range act {
				sum += float64(x * row[i])
			}
			next[j] = relu(sum + dl.biases[j])
		}
		act = next
	}
	return act[0], nil
}

// #endregion evaluator
