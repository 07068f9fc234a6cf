package params

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/stub-enhancer/predictor/internal/topology"
)

// LayerStats summarizes the weights feeding one layer and that layer's biases.
type LayerStats struct {
	Layer      int
	Weights    int
	Mean       float64
	StdDev     float64
	Min        float64
	Max        float64
	MaxAbs     float64
	BiasMean   float64
	BiasMaxAbs float64
}

// Summarize returns stats for every non-input layer. Missing entries are skipped;
// run Validate first when completeness matters.
func (t *Table) Summarize(topo *topology.Topology) []LayerStats {
	out := make([]LayerStats, 0, len(topo.EdgesByLayer))
	for k, edges := range topo.EdgesByLayer {
		ws := make([]float64, 0, len(edges))
		for _, e := range edges {
			if w, err := t.Weight(e.Source, e.Target); err == nil {
				ws = append(ws, w)
			}
		}
		var bs []float64
		for _, id := range topo.Layers[k+1] {
			if b, err := t.Bias(id); err == nil {
				bs = append(bs, b)
			}
		}

		s := LayerStats{Layer: k + 1, Weights: len(ws)}
		if len(ws) > 0 {
			s.Mean, s.StdDev = stat.MeanStdDev(ws, nil)
			s.Min = floats.Min(ws)
			s.Max = floats.Max(ws)
			s.MaxAbs = maxAbs(ws)
		}
		if len(bs) > 0 {
			s.BiasMean = stat.Mean(bs, nil)
			s.BiasMaxAbs = maxAbs(bs)
		}
		out = append(out, s)
	}
	return out
}

func maxAbs(xs []float64) float64 {
	return floats.Norm(xs, math.Inf(1))
}
