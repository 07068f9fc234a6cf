package replay

import (
	"fmt"
	"math"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region types

// ReplayResult captures the outcome of replaying one interaction.
type ReplayResult struct {
	ID        string
	Action    string // "match" | "mismatch"
	Reason    string
	Output    float64
	Deviation float64 // |output - expected|; 0 for error cases
	Err       error
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Total        int
	Matches      int
	Mismatches   int
	Errors       int // interactions whose prediction returned an error
	MaxDeviation float64
}

// #endregion types

// #region replay

// Replay runs every interaction through p and compares against the recorded expectation.
// Outputs within tolerance match.
func Replay(p *predict.Predictor, interactions []FixtureInteraction, tolerance float64) []ReplayResult {
	results := make([]ReplayResult, 0, len(interactions))

	for _, inter := range interactions {
		r := ReplayResult{ID: inter.ID}

		out, err := predictLabel(p, inter)
		r.Output = out
		r.Err = err

		switch {
		case inter.ExpectedError != "":
			got := ""
			if err != nil {
				got = ErrorKind(err)
			}
			if got == inter.ExpectedError {
				r.Action = "match"
			} else {
				r.Action = "mismatch"
				r.Reason = fmt.Sprintf("expected error %s, got %q (output %.2f)", inter.ExpectedError, got, out)
			}

		case inter.ExpectedOutput == nil:
			r.Action = "mismatch"
			r.Reason = "interaction has no expectation"

		case err != nil:
			r.Action = "mismatch"
			r.Reason = fmt.Sprintf("unexpected error: %v", err)

		default:
			r.Deviation = math.Abs(out - *inter.ExpectedOutput)
			if r.Deviation <= tolerance {
				r.Action = "match"
			} else {
				r.Action = "mismatch"
				r.Reason = fmt.Sprintf("output %.6f deviates from %.6f by %.6f", out, *inter.ExpectedOutput, r.Deviation)
			}
		}

		results = append(results, r)
	}

	return results
}

func predictLabel(p *predict.Predictor, inter FixtureInteraction) (float64, error) {
	cred, err := encoding.ParseCredential(inter.Credential)
	if err != nil {
		return 0, err
	}
	return p.Predict(cred, inter.Field, inter.Years)
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{Total: len(results)}
	for _, r := range results {
		switch r.Action {
		case "match":
			s.Matches++
		case "mismatch":
			s.Mismatches++
		}
		if r.Err != nil {
			s.Errors++
		}
		if r.Deviation > s.MaxDeviation {
			s.MaxDeviation = r.Deviation
		}
	}
	return s
}

// #endregion replay
