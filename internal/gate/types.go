package gate

// #region gate-config
// GateConfig holds the drift limits for promoting a candidate model.
type GateConfig struct {
	MaxMeanDrift float64 `yaml:"max_mean_drift" json:"max_mean_drift"` // mean |candidate-current| / current
	MaxAbsDrift  float64 `yaml:"max_abs_drift" json:"max_abs_drift"`   // largest single |candidate-current|
}

// DefaultGateConfig returns permissive defaults: 15% mean drift, $25k worst case.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxMeanDrift: 0.15,
		MaxAbsDrift:  25000,
	}
}

// #endregion gate-config

// #region veto
// VetoType classifies a hard veto.
type VetoType string

const (
	VetoCoverage VetoType = "coverage" // candidate rejects inputs the current model accepts
	VetoDrift    VetoType = "drift"
)

// VetoSignal is one reason the gate refused a promotion.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto

// #region gate-decision
// GateDecision is the gate's verdict on a candidate.
type GateDecision struct {
	Action      string // "commit" | "reject"
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal
	Compared    int
	MeanDrift   float64
	MaxDrift    float64
}

// #endregion gate-decision
