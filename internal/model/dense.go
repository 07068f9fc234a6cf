package model

import (
	"fmt"

	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region dense

// DenseExport is the per-layer kernel/bias layout a Keras get_weights() dump produces.
type DenseExport struct {
	Version     string             `json:"version"`
	Description string             `json:"description,omitempty"`
	Layers      []DenseLayer       `json:"layers"`
	Encodings   *ArtifactEncodings `json:"encodings,omitempty"`
}

// DenseLayer holds one Dense layer: Kernel[i][j] is the weight from input i to unit j.
type DenseLayer struct {
	Kernel [][]float64 `json:"kernel"`
	Bias   []float64   `json:"bias"`
}

// ToArtifact converts the export into node-id keyed tables.
func (d *DenseExport) ToArtifact() (*Artifact, error) {
	if len(d.Layers) == 0 {
		return nil, fmt.Errorf("dense export: no layers")
	}

	sizes := topology.LayerSizes{len(d.Layers[0].Kernel)}
	for k, l := range d.Layers {
		if len(l.Kernel) != sizes[k] {
			return nil, fmt.Errorf("dense export: layer %d kernel has %d rows, previous layer has %d units", k, len(l.Kernel), sizes[k])
		}
		sizes = append(sizes, len(l.Bias))
	}

	topo, err := topology.Build(sizes)
	if err != nil {
		return nil, fmt.Errorf("dense export: %w", err)
	}

	a := &Artifact{
		Version:     d.Version,
		Description: d.Description,
		LayerSizes:  sizes,
		Weights:     make(map[string]map[string]float64),
		Biases:      make(map[string]float64),
		Encodings:   d.Encodings,
	}
	for k, l := range d.Layers {
		prev, cur := topo.Layers[k], topo.Layers[k+1]
		for i, row := range l.Kernel {
			if len(row) != len(cur) {
				return nil, fmt.Errorf("dense export: layer %d row %d has %d columns, want %d", k, i, len(row), len(cur))
			}
			ws := make(map[string]float64, len(row))
			for j, w := range row {
				ws[cur[j]] = w
			}
			a.Weights[prev[i]] = ws
		}
		for j, b := range l.Bias {
			a.Biases[cur[j]] = b
		}
	}
	return a, nil
}

// #endregion dense
