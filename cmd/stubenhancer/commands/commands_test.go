package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stub-enhancer/predictor/internal/logging"
	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/modelstore"
	"github.com/stub-enhancer/predictor/internal/predict"
	"github.com/stub-enhancer/predictor/internal/replay"
)

// #region helpers
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeArtifact(t *testing.T, dir, name string, mutate func(a *model.Artifact)) string {
	t.Helper()
	a, err := model.Parse(model.DefaultArtifact())
	require.NoError(t, err)
	mutate(a)
	data, err := a.Marshal()
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// #endregion helpers

// #region predict-tests
func TestPredictCommandUsesEmbeddedModel(t *testing.T) {
	db := filepath.Join(t.TempDir(), "none.db")

	out, err := run(t, "--db", db, "predict",
		"--credential", "Certificate", "--field", "Engineering", "--years", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "a credential type of Certificate")
	assert.Contains(t, out, "$66,573.67 CAD")

	_, statErr := os.Stat(db)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "predict must not create the store")
}

func TestPredictCommandPromptsUntilComplete(t *testing.T) {
	out, err := run(t, "--db", filepath.Join(t.TempDir(), "none.db"), "predict", "--field", "History")
	require.NoError(t, err)
	assert.Equal(t, predict.PromptText+"\n", out)
}

func TestPredictCommandGraph(t *testing.T) {
	out, err := run(t, "--db", filepath.Join(t.TempDir(), "none.db"), "predict",
		"--credential", "Bachelor's degree", "--field", "Psychology", "--years", "1", "--graph")
	require.NoError(t, err)
	assert.Contains(t, out, "credential input: in3")
	assert.Contains(t, out, "L0: in1=-1.4000")
	assert.Contains(t, out, "hl1n1=0.5824")
	assert.Contains(t, out, "L3: out1=57294.9767")
}

func TestPredictCommandRejectsUnknownField(t *testing.T) {
	_, err := run(t, "--db", filepath.Join(t.TempDir(), "none.db"), "predict",
		"--credential", "Diploma", "--field", "Alchemy", "--years", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field of study")
}

// #endregion predict-tests

// #region import-tests
func TestImportActivateAndRollback(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "models.db")

	base := writeArtifact(t, dir, "base.json", func(a *model.Artifact) {})
	shifted := writeArtifact(t, dir, "shifted.json", func(a *model.Artifact) {
		a.Version = "salary-model-2023.2"
		a.Biases["out1"] += 100
	})

	out, err := run(t, "--db", db, "import", base)
	require.NoError(t, err)
	assert.Contains(t, out, "no active model")
	assert.Contains(t, out, "active:")

	out, err = run(t, "--db", db, "import", shifted)
	require.NoError(t, err)
	assert.Contains(t, out, "passed gate")

	out, err = run(t, "--db", db, "predict",
		"--credential", "Certificate", "--field", "Engineering", "--years", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "$66,673.67 CAD")

	// Re-importing identical content reuses the stored version.
	out, err = run(t, "--db", db, "import", base)
	require.NoError(t, err)
	assert.Contains(t, out, "already stored as")

	out, err = run(t, "--db", db, "predict",
		"--credential", "Certificate", "--field", "Engineering", "--years", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "$66,573.67 CAD")

	store, err := modelstore.NewStore(db)
	require.NoError(t, err)
	defer store.Close()
	versions, err := store.ListVersions(10)
	require.NoError(t, err)
	assert.Len(t, versions, 2)

	out, err = run(t, "--db", db, "inspect", "--weights")
	require.NoError(t, err)
	assert.Contains(t, out, "salary-model-2023.2")
	assert.Contains(t, out, "8-25-10-1")
}

func TestImportGateRejectsDrift(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "models.db")

	base := writeArtifact(t, dir, "base.json", func(a *model.Artifact) {})
	drifted := writeArtifact(t, dir, "drifted.json", func(a *model.Artifact) {
		a.Version = "drifted"
		a.Biases["out1"] += 40000
	})

	_, err := run(t, "--db", db, "import", base)
	require.NoError(t, err)

	out, err := run(t, "--db", db, "import", drifted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errRejected))
	assert.Contains(t, err.Error(), "gate")
	assert.Contains(t, out, "not stored")

	out, err = run(t, "--db", db, "import", "--force", drifted)
	require.NoError(t, err)
	assert.Contains(t, out, "active:")
}

func TestImportEvalRejectsExplodedWeights(t *testing.T) {
	dir := t.TempDir()
	exploded := writeArtifact(t, dir, "exploded.json", func(a *model.Artifact) {
		a.Version = "exploded"
		a.Weights["in1"]["hl1n1"] = 1e6
	})

	_, err := run(t, "--db", filepath.Join(dir, "models.db"), "import", exploded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eval")
}

func TestActivateUnknownVersion(t *testing.T) {
	_, err := run(t, "--db", filepath.Join(t.TempDir(), "models.db"), "activate", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// #endregion import-tests

// #region replay-tests
func TestReplayCommandDefaultFixture(t *testing.T) {
	fixture := filepath.Join("..", "..", "..", "internal", "replay", "testdata", "default_model.json")

	out, err := run(t, "--db", filepath.Join(t.TempDir(), "none.db"), "replay", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "9 interactions, 9 match, 0 mismatch")
}

func TestExportFixtureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "models.db")

	store, err := modelstore.NewStore(db)
	require.NoError(t, err)
	out := 60001.336702621964
	require.NoError(t, logging.LogPrediction(store.DB(), logging.PredictionEntry{
		ModelVersion: "salary-model-2023.1", Credential: "Diploma", Field: "History", Years: 4,
		Output: &out, Outcome: logging.OutcomePredicted,
	}))
	require.NoError(t, logging.LogPrediction(store.DB(), logging.PredictionEntry{
		ModelVersion: "salary-model-2023.1", Credential: "Diploma", Field: "History", Years: 9,
		Outcome: logging.OutcomeRejected, Reason: "unknown years value: 9",
	}))
	require.NoError(t, store.Close())

	fixture := filepath.Join(dir, "fixture.json")
	msg, err := run(t, "--db", db, "export-fixture", "--out", fixture)
	require.NoError(t, err)
	assert.Contains(t, msg, "wrote 2 interactions")

	f, err := replay.LoadFixture(fixture)
	require.NoError(t, err)
	require.Len(t, f.Interactions, 2)
	assert.Equal(t, replay.KindUnknownYears, f.Interactions[1].ExpectedError)

	msg, err = run(t, "--db", db, "replay", fixture)
	require.NoError(t, err)
	assert.Contains(t, msg, "2 match, 0 mismatch")
}

// #endregion replay-tests
