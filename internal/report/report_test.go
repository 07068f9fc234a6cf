package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/topology"
)

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		66573.67196462296:  "$66,573.67 CAD",
		52345.6:            "$52,345.6 CAD",
		0:                  "$0.0 CAD",
		1234.5:             "$1,234.5 CAD",
		999.999:            "$1,000.0 CAD",
		1250000:            "$1,250,000.0 CAD",
		60000.004:          "$60,000.0 CAD",
		48427.430209098515: "$48,427.43 CAD",
	}
	for in, want := range cases {
		assert.Equal(t, want, Currency(in), "%v", in)
	}
}

func TestSentence(t *testing.T) {
	in := encoding.Input{Credential: encoding.Certificate, Field: "Engineering", Years: 3}
	got := Sentence(in, 66573.67196462296)
	assert.Equal(t,
		"According to your inputs, with a field of study in Engineering, a credential type of Certificate, and 3 years of experience, we predict that you can expect to earn $66,573.67 CAD on average in Alberta.",
		got)
}

func TestLayerTable(t *testing.T) {
	topo := topology.MustBuild(topology.LayerSizes{2, 1})
	for i := range topo.Nodes {
		topo.Nodes[i].Value = map[string]float64{"in1": 1, "in2": -0.5, "out1": 2.25}[topo.Nodes[i].ID]
	}
	assert.Equal(t, "L0: in1=1.0000 in2=-0.5000\nL1: out1=2.2500\n", LayerTable(topo))
}
