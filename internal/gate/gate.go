package gate

import (
	"fmt"
	"math"

	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region gate
// Gate decides whether a candidate model may replace the active one.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate compares candidate against current on every input current can encode.
// A nil current always commits.
func (g *Gate) Evaluate(current, candidate *predict.Predictor) (GateDecision, error) {
	if current == nil {
		return GateDecision{Action: "commit", Reason: "no active model"}, nil
	}

	var vetoes []VetoSignal
	var sumRel, maxAbs float64
	compared, uncovered := 0, 0

	for _, in := range current.Model().Encodings.Combinations() {
		want, err := current.Predict(in.Credential, in.Field, in.Years)
		if err != nil {
			return GateDecision{}, fmt.Errorf("current model %+v: %w", in, err)
		}
		got, err := candidate.Predict(in.Credential, in.Field, in.Years)
		if err != nil {
			if encoding.IsInputError(err) {
				uncovered++
				continue
			}
			return GateDecision{}, fmt.Errorf("candidate model %+v: %w", in, err)
		}

		diff := math.Abs(got - want)
		if diff > maxAbs {
			maxAbs = diff
		}
		if want != 0 {
			sumRel += diff / want
		} else if diff != 0 {
			sumRel += 1
		}
		compared++
	}

	var meanRel float64
	if compared > 0 {
		meanRel = sumRel / float64(compared)
	}

	// --- Hard veto pass ---
	if uncovered > 0 {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoCoverage,
			Reason: fmt.Sprintf("candidate rejects %d inputs the active model accepts", uncovered),
		})
	}
	if meanRel > g.config.MaxMeanDrift {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoDrift,
			Reason: fmt.Sprintf("mean drift %.4f exceeds cap %.4f", meanRel, g.config.MaxMeanDrift),
		})
	}
	if maxAbs > g.config.MaxAbsDrift {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoDrift,
			Reason: fmt.Sprintf("max drift %.2f exceeds cap %.2f", maxAbs, g.config.MaxAbsDrift),
		})
	}

	d := GateDecision{
		Compared:  compared,
		MeanDrift: meanRel,
		MaxDrift:  maxAbs,
	}
	if len(vetoes) > 0 {
		d.Action = "reject"
		d.Reason = fmt.Sprintf("hard veto: %s", vetoes[0].Reason)
		d.Vetoed = true
		d.VetoSignals = vetoes
		klog.Warningf("gate rejected %s over %s: %s", candidate.Version(), current.Version(), d.Reason)
		return d, nil
	}

	d.Action = "commit"
	d.Reason = fmt.Sprintf("passed gate: mean_drift=%.4f max_drift=%.2f", meanRel, maxAbs)
	return d, nil
}

// #endregion gate
