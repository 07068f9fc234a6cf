package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/logging"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description  string               `json:"description"`
	ModelVersion string               `json:"model_version,omitempty"`
	Tolerance    float64              `json:"tolerance"`
	Interactions []FixtureInteraction `json:"interactions"`
}

// FixtureInteraction is one recorded prediction request and what it should produce.
// Exactly one of ExpectedOutput and ExpectedError is set.
type FixtureInteraction struct {
	ID             string   `json:"id"`
	Credential     string   `json:"credential"` // dataset label, e.g. "Master's degree"
	Field          string   `json:"field"`
	Years          int      `json:"years"`
	ExpectedOutput *float64 `json:"expected_output,omitempty"`
	ExpectedError  string   `json:"expected_error,omitempty"`
}

// Error kinds used in fixtures.
const (
	KindUnknownYears      = "unknown_years"
	KindUnknownField      = "unknown_field"
	KindInvalidCredential = "invalid_credential"
	KindOther             = "other"
)

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(f Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader

// #region export

// FromPredictions builds a fixture from prediction log rows. Rejected rows become
// expected-error interactions.
func FromPredictions(entries []logging.PredictionEntry, tolerance float64) Fixture {
	f := Fixture{
		Description:  fmt.Sprintf("Prediction log export: %d requests", len(entries)),
		Tolerance:    tolerance,
		Interactions: make([]FixtureInteraction, 0, len(entries)),
	}
	for _, e := range entries {
		fi := FixtureInteraction{
			ID:         e.RequestID,
			Credential: e.Credential,
			Field:      e.Field,
			Years:      e.Years,
		}
		switch e.Outcome {
		case logging.OutcomePredicted:
			if e.Output == nil {
				continue
			}
			v := *e.Output
			fi.ExpectedOutput = &v
			if f.ModelVersion == "" {
				f.ModelVersion = e.ModelVersion
			}
		case logging.OutcomeRejected:
			fi.ExpectedError = kindFromReason(e.Reason)
		default:
			continue
		}
		f.Interactions = append(f.Interactions, fi)
	}
	return f
}

// ErrorKind classifies a predict error into a fixture error kind.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, encoding.ErrUnknownYearsValue):
		return KindUnknownYears
	case errors.Is(err, encoding.ErrUnknownFieldOfStudy):
		return KindUnknownField
	case errors.Is(err, encoding.ErrInvalidCredential):
		return KindInvalidCredential
	default:
		return KindOther
	}
}

// kindFromReason recovers the kind from a logged error string.
func kindFromReason(reason string) string {
	for _, sentinel := range []error{
		encoding.ErrUnknownYearsValue,
		encoding.ErrUnknownFieldOfStudy,
		encoding.ErrInvalidCredential,
	} {
		if strings.Contains(reason, sentinel.Error()) {
			return ErrorKind(sentinel)
		}
	}
	return KindOther
}

// #endregion export
