package modelstore

import (
	"time"

	"github.com/stub-enhancer/predictor/internal/model"
)

// #region model-record
// ModelRecord is one stored artifact version.
type ModelRecord struct {
	VersionID    string // store-assigned id
	ParentID     string // version that was active when this one was imported
	ModelVersion string // artifact's own version label
	Checksum     string
	Artifact     []byte // artifact JSON
	EvalJSON     string // eval result captured at import
	CreatedAt    time.Time
	Active       bool
}

// Model parses and validates the stored artifact.
func (r ModelRecord) Model() (*model.Model, error) {
	a, err := model.Parse(r.Artifact)
	if err != nil {
		return nil, err
	}
	return a.Build()
}

// #endregion model-record
