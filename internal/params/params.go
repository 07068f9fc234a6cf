package params

import (
	"errors"
	"fmt"
	"math"

	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region types

// ErrMissingParameter matches every MissingParameterError.
var ErrMissingParameter = errors.New("missing parameter")

// MissingParameterError identifies the weight or bias a topology needs but the table lacks.
type MissingParameterError struct {
	Kind   string // "weight" | "bias"
	Source string // weight only
	Target string // node id for a bias, destination for a weight
}

func (e *MissingParameterError) Error() string {
	if e.Kind == "bias" {
		return fmt.Sprintf("missing parameter: bias %s", e.Target)
	}
	return fmt.Sprintf("missing parameter: weight %s -> %s", e.Source, e.Target)
}

// Is lets errors.Is(err, ErrMissingParameter) match.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// Table holds trained weights and biases keyed by node id. Read-only after load.
type Table struct {
	Weights map[string]map[string]float64 `json:"weights"` // source -> destination -> weight
	Biases  map[string]float64            `json:"biases"`
}

// #endregion types

// #region lookup

// Weight returns the weight of source -> target.
func (t *Table) Weight(source, target string) (float64, error) {
	row, ok := t.Weights[source]
	if !ok {
		return 0, &MissingParameterError{Kind: "weight", Source: source, Target: target}
	}
	w, ok := row[target]
	if !ok {
		return 0, &MissingParameterError{Kind: "weight", Source: source, Target: target}
	}
	return w, nil
}

// Bias returns the bias of node id.
func (t *Table) Bias(id string) (float64, error) {
	b, ok := t.Biases[id]
	if !ok {
		return 0, &MissingParameterError{Kind: "bias", Target: id}
	}
	return b, nil
}

// #endregion lookup

// #region validate

// Validate checks that every edge has a weight and every non-input node has a bias.
// All gaps are reported together. Non-finite values are also rejected.
func (t *Table) Validate(topo *topology.Topology) error {
	var errs []error
	for _, layer := range topo.EdgesByLayer {
		for _, e := range layer {
			w, err := t.Weight(e.Source, e.Target)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if math.IsNaN(w) || math.IsInf(w, 0) {
				errs = append(errs, fmt.Errorf("weight %s -> %s is not finite", e.Source, e.Target))
			}
		}
	}
	for _, ids := range topo.Layers[1:] {
		for _, id := range ids {
			b, err := t.Bias(id)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if math.IsNaN(b) || math.IsInf(b, 0) {
				errs = append(errs, fmt.Errorf("bias %s is not finite", id))
			}
		}
	}
	return errors.Join(errs...)
}

// #endregion validate

// #region clone

// Clone returns a deep copy, e.g. for building a test fixture with one entry removed.
func (t *Table) Clone() *Table {
	c := &Table{
		Weights: make(map[string]map[string]float64, len(t.Weights)),
		Biases:  make(map[string]float64, len(t.Biases)),
	}
	for src, row := range t.Weights {
		r := make(map[string]float64, len(row))
		for dst, w := range row {
			r[dst] = w
		}
		c.Weights[src] = r
	}
	for id, b := range t.Biases {
		c.Biases[id] = b
	}
	return c
}

// #endregion clone
