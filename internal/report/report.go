package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/topology"
)

// #region currency

// Currency formats an amount the way the dashboard shows it, e.g. "$52,345.6 CAD".
// The amount is rounded to cents and keeps at least one decimal.
func Currency(v float64) string {
	v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	s := humanize.Commaf(v)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return "$" + s + " CAD"
}

// #endregion currency

// #region sentence

// Sentence is the prediction panel text for one input.
func Sentence(in encoding.Input, v float64) string {
	return fmt.Sprintf(
		"According to your inputs, with a field of study in %s, a credential type of %s, and %d years of experience, we predict that you can expect to earn %s on average in Alberta.",
		in.Field, in.Credential, in.Years, Currency(v),
	)
}

// #endregion sentence

// #region table

// LayerTable renders the node values of an annotated topology, one line per layer.
func LayerTable(annotated *topology.Topology) string {
	var b strings.Builder
	for k, ids := range annotated.Layers {
		b.WriteString(fmt.Sprintf("L%d:", k))
		for _, id := range ids {
			n, _ := annotated.Node(id)
			b.WriteString(fmt.Sprintf(" %s=%.4f", id, n.Value))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// #endregion table
