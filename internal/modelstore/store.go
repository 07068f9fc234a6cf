package modelstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/stub-enhancer/predictor/internal/model"
)

// ErrNoActiveModel is returned by GetActive before any version has been activated.
var ErrNoActiveModel = errors.New("no active model")

// TimeFormat is fixed-width so created_at columns sort lexically.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS model_versions (
	version_id     TEXT PRIMARY KEY,
	parent_id      TEXT,
	model_version  TEXT NOT NULL,
	checksum       TEXT NOT NULL,
	artifact       BLOB NOT NULL,
	eval_json      TEXT,
	created_at     TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES model_versions(version_id)
);
CREATE INDEX IF NOT EXISTS idx_model_versions_checksum ON model_versions(checksum);

CREATE TABLE IF NOT EXISTS active_model (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES model_versions(version_id)
);

CREATE TABLE IF NOT EXISTS prediction_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id    TEXT NOT NULL,
	model_version TEXT NOT NULL,
	credential    TEXT NOT NULL,
	field         TEXT NOT NULL,
	years         INTEGER NOT NULL,
	output        REAL,
	outcome       TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store keeps versioned model artifacts and the prediction log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for the prediction log.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region import
// Import stores a validated artifact as a new version. The active pointer does not move;
// call Activate once the version has passed eval and the promotion gate.
func (s *Store) Import(a *model.Artifact, evalJSON string) (ModelRecord, error) {
	if _, err := a.Build(); err != nil {
		return ModelRecord{}, fmt.Errorf("import: %w", err)
	}
	data, err := a.Marshal()
	if err != nil {
		return ModelRecord{}, fmt.Errorf("marshal artifact: %w", err)
	}
	sum, err := a.Checksum()
	if err != nil {
		return ModelRecord{}, err
	}

	parentID, err := s.activeID()
	if err != nil && !errors.Is(err, ErrNoActiveModel) {
		return ModelRecord{}, err
	}

	rec := ModelRecord{
		VersionID:    uuid.New().String(),
		ParentID:     parentID,
		ModelVersion: a.Version,
		Checksum:     sum,
		Artifact:     data,
		EvalJSON:     evalJSON,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.Exec(
		`INSERT INTO model_versions (version_id, parent_id, model_version, checksum, artifact, eval_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.VersionID, nullIfEmpty(rec.ParentID), rec.ModelVersion, rec.Checksum, rec.Artifact,
		nullIfEmpty(rec.EvalJSON), rec.CreatedAt.Format(TimeFormat),
	)
	if err != nil {
		return ModelRecord{}, fmt.Errorf("insert version: %w", err)
	}
	return rec, nil
}

// #endregion import

// #region activate
// Activate points the active model at versionID. Activating an older version is a rollback.
func (s *Store) Activate(versionID string) error {
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM model_versions WHERE version_id = ?`, versionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("version %s not found", versionID)
	}

	_, err = s.db.Exec(
		`INSERT INTO active_model (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		versionID,
	)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	return nil
}

// #endregion activate

// #region get
// GetActive reads the active version.
func (s *Store) GetActive() (ModelRecord, error) {
	id, err := s.activeID()
	if err != nil {
		return ModelRecord{}, err
	}
	return s.GetVersion(id)
}

func (s *Store) activeID() (string, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_model WHERE id = 1`).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoActiveModel
	}
	if err != nil {
		return "", fmt.Errorf("get active: %w", err)
	}
	return versionID, nil
}

// GetVersion retrieves a stored version by id.
func (s *Store) GetVersion(id string) (ModelRecord, error) {
	row := s.db.QueryRow(
		`SELECT v.version_id, v.parent_id, v.model_version, v.checksum, v.artifact, v.eval_json, v.created_at,
		        a.version_id IS NOT NULL
		 FROM model_versions v LEFT JOIN active_model a ON a.version_id = v.version_id
		 WHERE v.version_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return ModelRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// FindByChecksum returns the newest version with the given artifact checksum.
func (s *Store) FindByChecksum(sum string) (ModelRecord, bool, error) {
	row := s.db.QueryRow(
		`SELECT v.version_id, v.parent_id, v.model_version, v.checksum, v.artifact, v.eval_json, v.created_at,
		        a.version_id IS NOT NULL
		 FROM model_versions v LEFT JOIN active_model a ON a.version_id = v.version_id
		 WHERE v.checksum = ? ORDER BY v.created_at DESC, v.rowid DESC LIMIT 1`, sum,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ModelRecord{}, false, nil
	}
	if err != nil {
		return ModelRecord{}, false, fmt.Errorf("find checksum: %w", err)
	}
	return rec, true, nil
}

// #endregion get

// #region list-versions
// ListVersions returns the most recent versions, newest first.
func (s *Store) ListVersions(limit int) ([]ModelRecord, error) {
	rows, err := s.db.Query(
		`SELECT v.version_id, v.parent_id, v.model_version, v.checksum, v.artifact, v.eval_json, v.created_at,
		        a.version_id IS NOT NULL
		 FROM model_versions v LEFT JOIN active_model a ON a.version_id = v.version_id
		 ORDER BY v.created_at DESC, v.rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []ModelRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-versions

// #region helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (ModelRecord, error) {
	var rec ModelRecord
	var parentID, evalJSON sql.NullString
	var createdStr string
	if err := sc.Scan(&rec.VersionID, &parentID, &rec.ModelVersion, &rec.Checksum, &rec.Artifact,
		&evalJSON, &createdStr, &rec.Active); err != nil {
		return ModelRecord{}, err
	}
	rec.ParentID = parentID.String
	rec.EvalJSON = evalJSON.String
	rec.CreatedAt, _ = time.Parse(TimeFormat, createdStr)
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
