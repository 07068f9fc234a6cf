package eval

// #region eval-config
// EvalConfig holds thresholds a model must meet before it can be activated.
type EvalConfig struct {
	MaxAbsWeight       float64 `yaml:"max_abs_weight" json:"max_abs_weight"`               // reject exploded weights
	MaxOutput          float64 `yaml:"max_output" json:"max_output"`                       // reject implausible salaries
	MaxZeroOutputRatio float64 `yaml:"max_zero_output_ratio" json:"max_zero_output_ratio"` // reject models that clamp most inputs to 0
}

// DefaultEvalConfig returns defaults sized for Alberta median incomes.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MaxAbsWeight:       50000,
		MaxOutput:          500000,
		MaxZeroOutputRatio: 0.05,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of model validation.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
	Probes  int          `json:"probes"`
}

// Metric returns the named metric.
func (r EvalResult) Metric(name string) (EvalMetric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EvalMetric{}, false
}

// #endregion eval-result
