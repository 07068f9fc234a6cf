package modelstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/params"
)

// #region helpers
func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func defaultArtifact(t *testing.T) *model.Artifact {
	t.Helper()
	a, err := model.Parse(model.DefaultArtifact())
	require.NoError(t, err)
	return a
}

// #endregion helpers

// #region import-tests
func TestGetActiveOnEmptyStore(t *testing.T) {
	s := tempStore(t)
	_, err := s.GetActive()
	assert.ErrorIs(t, err, ErrNoActiveModel)
}

func TestImportAndActivate(t *testing.T) {
	s := tempStore(t)

	rec, err := s.Import(defaultArtifact(t), `{"passed":true}`)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.VersionID)
	assert.Empty(t, rec.ParentID)
	assert.Equal(t, "salary-model-2023.1", rec.ModelVersion)
	assert.False(t, rec.Active)

	_, err = s.GetActive()
	require.ErrorIs(t, err, ErrNoActiveModel, "import alone does not activate")

	require.NoError(t, s.Activate(rec.VersionID))

	cur, err := s.GetActive()
	require.NoError(t, err)
	assert.Equal(t, rec.VersionID, cur.VersionID)
	assert.True(t, cur.Active)
	assert.Equal(t, `{"passed":true}`, cur.EvalJSON)
	assert.Equal(t, rec.Checksum, cur.Checksum)
	assert.WithinDuration(t, rec.CreatedAt, cur.CreatedAt, 0)

	m, err := cur.Model()
	require.NoError(t, err)
	assert.Equal(t, "salary-model-2023.1", m.Version)
	assert.Equal(t, rec.Checksum, m.Checksum)
}

func TestImportRejectsIncompleteArtifact(t *testing.T) {
	s := tempStore(t)
	a := defaultArtifact(t)
	delete(a.Biases, "hl1n1")

	_, err := s.Import(a, "")
	assert.ErrorIs(t, err, params.ErrMissingParameter)

	versions, err := s.ListVersions(10)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

// #endregion import-tests

// #region rollback-tests
func TestActivateAndRollback(t *testing.T) {
	s := tempStore(t)

	v1, err := s.Import(defaultArtifact(t), "")
	require.NoError(t, err)
	require.NoError(t, s.Activate(v1.VersionID))

	a2 := defaultArtifact(t)
	a2.Version = "salary-model-2023.2"
	a2.Biases["out1"] += 1000
	v2, err := s.Import(a2, "")
	require.NoError(t, err)
	assert.Equal(t, v1.VersionID, v2.ParentID)
	assert.NotEqual(t, v1.Checksum, v2.Checksum)

	require.NoError(t, s.Activate(v2.VersionID))
	cur, err := s.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "salary-model-2023.2", cur.ModelVersion)

	require.NoError(t, s.Activate(v1.VersionID))
	cur, err = s.GetActive()
	require.NoError(t, err)
	assert.Equal(t, v1.VersionID, cur.VersionID)
}

func TestActivateUnknownVersion(t *testing.T) {
	s := tempStore(t)
	assert.ErrorContains(t, s.Activate("nonexistent"), "not found")
}

// #endregion rollback-tests

// #region list-tests
func TestListVersionsNewestFirst(t *testing.T) {
	s := tempStore(t)

	var ids []string
	for i, label := range []string{"a", "b", "c"} {
		a := defaultArtifact(t)
		a.Version = label
		a.Biases["out1"] += float64(i)
		rec, err := s.Import(a, "")
		require.NoError(t, err)
		ids = append(ids, rec.VersionID)
	}
	require.NoError(t, s.Activate(ids[1]))

	versions, err := s.ListVersions(2)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "c", versions[0].ModelVersion)
	assert.Equal(t, "b", versions[1].ModelVersion)
	assert.False(t, versions[0].Active)
	assert.True(t, versions[1].Active)
}

func TestFindByChecksum(t *testing.T) {
	s := tempStore(t)
	rec, err := s.Import(defaultArtifact(t), "")
	require.NoError(t, err)

	found, ok, err := s.FindByChecksum(rec.Checksum)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.VersionID, found.VersionID)

	_, ok, err = s.FindByChecksum("deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetVersionMissing(t *testing.T) {
	s := tempStore(t)
	_, err := s.GetVersion("nope")
	assert.ErrorContains(t, err, "get version nope")
}

// #endregion list-tests
