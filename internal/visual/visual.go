package visual

import (
	"encoding/json"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/forward"
	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region types

// Element is one cytoscape element: a node when Position is set, otherwise an edge.
type Element struct {
	Data     ElementData        `json:"data"`
	Position *topology.Position `json:"position,omitempty"`
	Locked   bool               `json:"locked,omitempty"`
	Classes  string             `json:"classes,omitempty"`
}

// ElementData carries the id/label of a node or the endpoints of an edge.
type ElementData struct {
	ID         string   `json:"id,omitempty"`
	Label      string   `json:"label,omitempty"`
	Layer      *int     `json:"layer,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Credential string   `json:"credential,omitempty"`
	Source     string   `json:"source,omitempty"`
	Target     string   `json:"target,omitempty"`
}

// CredentialClass marks the input node of the active credential slot.
const CredentialClass = "credential"

// Marker identifies the active credential input for styling.
type Marker struct {
	Slot       int // one-hot slot within the credential block
	Credential encoding.Credential
}

// #endregion types

// #region elements

// Elements lays out topo as nodes followed by edges. With a nil result the nodes carry no
// values, which is what the page shows before any input is chosen. A nil marker adds no class.
func Elements(topo *topology.Topology, res *forward.Result, marker *Marker) []Element {
	out := make([]Element, 0, len(topo.Nodes)+topo.NumEdges())

	markedID := ""
	if marker != nil {
		idx := encoding.OneHotOffset + marker.Slot
		if idx >= 0 && idx < len(topo.Layers[0]) {
			markedID = topo.Layers[0][idx]
		}
	}

	for _, n := range topo.Nodes {
		pos := n.Position
		layer := n.Layer
		el := Element{
			Data:     ElementData{ID: n.ID, Label: n.Label, Layer: &layer},
			Position: &pos,
			Locked:   true,
		}
		if res != nil {
			if v, ok := res.Values[n.ID]; ok {
				el.Data.Value = &v
			}
		}
		if n.ID == markedID {
			el.Classes = CredentialClass
			el.Data.Credential = marker.Credential.String()
		}
		out = append(out, el)
	}

	for _, layer := range topo.EdgesByLayer {
		for _, e := range layer {
			out = append(out, Element{Data: ElementData{Source: e.Source, Target: e.Target}})
		}
	}
	return out
}

// JSON encodes elements for the renderer.
func JSON(elements []Element) ([]byte, error) {
	return json.Marshal(elements)
}

// #endregion elements
