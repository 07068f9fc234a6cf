package logging

import "time"

// Outcomes recorded in the prediction log.
const (
	OutcomePredicted = "predicted"
	OutcomeRejected  = "rejected"
)

// #region prediction-entry
// PredictionEntry is a single row in the prediction_log table.
type PredictionEntry struct {
	ID           int64
	RequestID    string
	ModelVersion string
	Credential   string
	Field        string
	Years        int
	Output       *float64 // nil when the input was rejected
	Outcome      string   // "predicted" | "rejected"
	Reason       string
	CreatedAt    time.Time
}

// #endregion prediction-entry
