package eval

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region eval-harness
// EvalHarness validates a model before activation.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run evaluates every encodable input through p and checks the results against the thresholds.
func (h *EvalHarness) Run(p *predict.Predictor) (EvalResult, error) {
	m := p.Model()
	var metrics []EvalMetric
	var failReasons []string

	// 1. Weight magnitude
	var maxAbs float64
	for _, s := range m.Params.Summarize(m.Topology) {
		if s.MaxAbs > maxAbs {
			maxAbs = s.MaxAbs
		}
	}
	weightPass := maxAbs <= h.config.MaxAbsWeight
	metrics = append(metrics, EvalMetric{Name: "max_abs_weight", Value: maxAbs, Pass: weightPass})
	if !weightPass {
		failReasons = append(failReasons, fmt.Sprintf("max |weight| %.4f exceeds %.4f", maxAbs, h.config.MaxAbsWeight))
	}

	// 2. Probe every input
	probes := m.Encodings.Combinations()
	outputs := make([]float64, 0, len(probes))
	alive := make(map[string]bool)
	zeros := 0
	for _, in := range probes {
		ex, err := p.Explain(in.Credential, in.Field, in.Years)
		if err != nil {
			return EvalResult{}, fmt.Errorf("probe %+v: %w", in, err)
		}
		out := ex.Output()
		outputs = append(outputs, out)
		if out == 0 {
			zeros++
		}
		for _, ids := range m.Topology.Layers[1 : len(m.Topology.Layers)-1] {
			for _, id := range ids {
				if ex.Result.Values[id] > 0 {
					alive[id] = true
				}
			}
		}
	}

	var maxOut, meanOut, zeroRatio float64
	if len(outputs) > 0 {
		maxOut = floats.Max(outputs)
		meanOut = stat.Mean(outputs, nil)
		zeroRatio = float64(zeros) / float64(len(outputs))
	}

	maxPass := maxOut <= h.config.MaxOutput
	metrics = append(metrics, EvalMetric{Name: "probe_max_output", Value: maxOut, Pass: maxPass})
	if !maxPass {
		failReasons = append(failReasons, fmt.Sprintf("max output %.2f exceeds %.2f", maxOut, h.config.MaxOutput))
	}

	zeroPass := zeroRatio <= h.config.MaxZeroOutputRatio
	metrics = append(metrics, EvalMetric{Name: "probe_zero_ratio", Value: zeroRatio, Pass: zeroPass})
	if !zeroPass {
		failReasons = append(failReasons, fmt.Sprintf("zero-output ratio %.4f exceeds %.4f", zeroRatio, h.config.MaxZeroOutputRatio))
	}

	// 3. Informational only
	metrics = append(metrics, EvalMetric{Name: "probe_mean_output", Value: meanOut, Pass: true})
	hidden := 0
	for _, ids := range m.Topology.Layers[1 : len(m.Topology.Layers)-1] {
		hidden += len(ids)
	}
	metrics = append(metrics, EvalMetric{Name: "dead_hidden_nodes", Value: float64(hidden - len(alive)), Pass: true})

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
	}

	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
		Probes:  len(probes),
	}, nil
}

// #endregion eval-harness
