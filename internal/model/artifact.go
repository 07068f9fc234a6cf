package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/params"
	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region artifact-types

// Artifact is the serialized output of an offline training run.
type Artifact struct {
	Version     string                        `json:"version"`
	Description string                        `json:"description,omitempty"`
	LayerSizes  topology.LayerSizes           `json:"layer_sizes"`
	Weights     map[string]map[string]float64 `json:"weights"`
	Biases      map[string]float64            `json:"biases"`
	Encodings   *ArtifactEncodings            `json:"encodings,omitempty"`
}

// ArtifactEncodings is the JSON form of encoding.Tables. Credentials are keyed by label.
type ArtifactEncodings struct {
	Fields      map[string]float64 `json:"fields"`
	Years       map[int]float64    `json:"years"`
	Credentials map[string]int     `json:"credentials"`
}

// Model is a loaded, validated artifact. Everything in it is read-only.
type Model struct {
	Version     string
	Description string
	Checksum    string
	Topology    *topology.Topology
	Params      *params.Table
	Encodings   encoding.Tables
}

// #endregion artifact-types

// #region load

// Parse decodes an artifact without validating it.
func Parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return &a, nil
}

// LoadFile reads and parses an artifact file.
func LoadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Marshal encodes the artifact as indented JSON.
func (a *Artifact) Marshal() ([]byte, error) {
	return json.MarshalIndent(a, "", " ")
}

// Checksum is the hex SHA-256 of the compact JSON encoding.
func (a *Artifact) Checksum() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// #endregion load

// #region build

// Build validates the artifact and returns the model it describes.
// Missing weights or biases fail here, before any evaluation.
func (a *Artifact) Build() (*Model, error) {
	if a.Version == "" {
		return nil, fmt.Errorf("artifact: empty version")
	}
	sizes := a.LayerSizes
	if len(sizes) == 0 {
		sizes = topology.DefaultLayerSizes
	}
	topo, err := topology.Build(sizes)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", a.Version, err)
	}
	if got := len(topo.InputIDs()); got != encoding.Width {
		return nil, fmt.Errorf("artifact %s: input layer has %d nodes, encoder produces %d", a.Version, got, encoding.Width)
	}

	table := &params.Table{Weights: a.Weights, Biases: a.Biases}
	if err := table.Validate(topo); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", a.Version, err)
	}

	tables, err := a.tables()
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", a.Version, err)
	}

	sum, err := a.Checksum()
	if err != nil {
		return nil, err
	}

	return &Model{
		Version:     a.Version,
		Description: a.Description,
		Checksum:    sum,
		Topology:    topo,
		Params:      table,
		Encodings:   tables,
	}, nil
}

func (a *Artifact) tables() (encoding.Tables, error) {
	if a.Encodings == nil {
		return encoding.DefaultTables(), nil
	}
	t := encoding.Tables{
		Fields:      a.Encodings.Fields,
		Years:       a.Encodings.Years,
		Credentials: make(map[encoding.Credential]int, len(a.Encodings.Credentials)),
	}
	for label, slot := range a.Encodings.Credentials {
		c, err := encoding.ParseCredential(label)
		if err != nil {
			return encoding.Tables{}, err
		}
		t.Credentials[c] = slot
	}
	if err := t.Validate(); err != nil {
		return encoding.Tables{}, err
	}
	return t, nil
}

// #endregion build
