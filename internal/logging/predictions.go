package logging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// #region log-prediction
// LogPrediction writes entry to prediction_log. A missing RequestID or CreatedAt is filled in.
func LogPrediction(db *sql.DB, entry PredictionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}

	var output any
	if entry.Output != nil {
		output = *entry.Output
	}

	_, err := db.Exec(
		`INSERT INTO prediction_log (request_id, model_version, credential, field, years, output, outcome, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		entry.ModelVersion,
		entry.Credential,
		entry.Field,
		entry.Years,
		output,
		entry.Outcome,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("log prediction: %w", err)
	}
	return nil
}

// #endregion log-prediction

// #region list-predictions
// ListPredictions returns the last n entries in chronological order.
// An empty outcome matches every row.
func ListPredictions(db *sql.DB, n int, outcome string) ([]PredictionEntry, error) {
	rows, err := db.Query(
		`SELECT id, request_id, model_version, credential, field, years, output, outcome, reason, created_at FROM (
			SELECT * FROM prediction_log
			WHERE (? = '' OR outcome = ?)
			ORDER BY id DESC LIMIT ?
		) sub ORDER BY id ASC`, outcome, outcome, n,
	)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var entries []PredictionEntry
	for rows.Next() {
		var e PredictionEntry
		var output sql.NullFloat64
		var reason sql.NullString
		var created string
		if err := rows.Scan(&e.ID, &e.RequestID, &e.ModelVersion, &e.Credential, &e.Field, &e.Years,
			&output, &e.Outcome, &reason, &created); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if output.Valid {
			v := output.Float64
			e.Output = &v
		}
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(timeFormat, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-predictions

// #region helpers
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
