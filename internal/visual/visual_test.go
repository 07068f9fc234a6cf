package visual

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/forward"
	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/topology"
)

func TestElementsWithoutResult(t *testing.T) {
	topo := topology.MustBuild(topology.DefaultLayerSizes)
	els := Elements(topo, nil, nil)

	require.Len(t, els, 44+460)
	first := els[0]
	assert.Equal(t, "in1", first.Data.ID)
	assert.Equal(t, "input-node1", first.Data.Label)
	assert.True(t, first.Locked)
	require.NotNil(t, first.Position)
	assert.Nil(t, first.Data.Value)
	assert.Empty(t, first.Classes)

	edge := els[44]
	assert.Equal(t, "in1", edge.Data.Source)
	assert.Equal(t, "hl1n1", edge.Data.Target)
	assert.Nil(t, edge.Position)
}

func TestElementsCarryValuesAndMarker(t *testing.T) {
	m, err := model.Default()
	require.NoError(t, err)
	v, err := m.Encodings.Encode(encoding.Certificate, "Engineering", 3)
	require.NoError(t, err)
	res, err := forward.Evaluate(v.Slice(), m.Topology, m.Params)
	require.NoError(t, err)

	slot, err := m.Encodings.Slot(encoding.Certificate)
	require.NoError(t, err)
	els := Elements(m.Topology, res, &Marker{Slot: slot, Credential: encoding.Certificate})

	marked := 0
	for _, el := range els[:44] {
		require.NotNil(t, el.Data.Value, el.Data.ID)
		assert.Equal(t, res.Values[el.Data.ID], *el.Data.Value)
		if el.Classes == CredentialClass {
			marked++
			assert.Equal(t, "in4", el.Data.ID)
			assert.Equal(t, "Certificate", el.Data.Credential)
			assert.Equal(t, 1.0, *el.Data.Value)
		}
	}
	assert.Equal(t, 1, marked)
}

func TestElementsJSON(t *testing.T) {
	topo := topology.MustBuild(topology.LayerSizes{8, 1})
	els := Elements(topo, nil, &Marker{Slot: 0, Credential: encoding.Bachelor})

	data, err := JSON(els)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 9+8)

	third := decoded[2]
	assert.Equal(t, "credential", third["classes"])
	assert.Equal(t, "Bachelor's degree", third["data"].(map[string]any)["credential"])
	assert.Equal(t, true, third["locked"])

	edge := decoded[9]
	assert.NotContains(t, edge, "position")
	assert.Equal(t, "in1", edge["data"].(map[string]any)["source"])
}
