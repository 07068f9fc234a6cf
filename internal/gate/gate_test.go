package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region helpers
func makePredictor(t *testing.T, mutate func(a *model.Artifact)) *predict.Predictor {
	t.Helper()
	a, err := model.Parse(model.DefaultArtifact())
	require.NoError(t, err)
	if mutate != nil {
		mutate(a)
	}
	m, err := a.Build()
	require.NoError(t, err)
	p, err := predict.New(m)
	require.NoError(t, err)
	return p
}

// #endregion helpers

// #region gate-tests
func TestGateCommitsWithoutActiveModel(t *testing.T) {
	d, err := NewGate(DefaultGateConfig()).Evaluate(nil, makePredictor(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "commit", d.Action)
	assert.Equal(t, "no active model", d.Reason)
}

func TestGateCommitsIdenticalModel(t *testing.T) {
	d, err := NewGate(DefaultGateConfig()).Evaluate(makePredictor(t, nil), makePredictor(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "commit", d.Action)
	assert.False(t, d.Vetoed)
	assert.Equal(t, 1110, d.Compared)
	assert.Equal(t, 0.0, d.MeanDrift)
	assert.Equal(t, 0.0, d.MaxDrift)
}

func TestGateCommitsSmallShift(t *testing.T) {
	candidate := makePredictor(t, func(a *model.Artifact) {
		a.Version = "shifted"
		a.Biases["out1"] += 500
	})

	d, err := NewGate(DefaultGateConfig()).Evaluate(makePredictor(t, nil), candidate)
	require.NoError(t, err)
	assert.Equal(t, "commit", d.Action)
	assert.InDelta(t, 500, d.MaxDrift, 1e-6)
	assert.Greater(t, d.MeanDrift, 0.0)
}

func TestGateRejectsLargeDrift(t *testing.T) {
	candidate := makePredictor(t, func(a *model.Artifact) {
		a.Biases["out1"] += 40000
	})

	d, err := NewGate(DefaultGateConfig()).Evaluate(makePredictor(t, nil), candidate)
	require.NoError(t, err)

	assert.Equal(t, "reject", d.Action)
	assert.True(t, d.Vetoed)
	require.Len(t, d.VetoSignals, 2)
	assert.Equal(t, VetoDrift, d.VetoSignals[0].Type)
	assert.Contains(t, d.Reason, "mean drift")
}

func TestGateRejectsLostCoverage(t *testing.T) {
	candidate := makePredictor(t, func(a *model.Artifact) {
		delete(a.Encodings.Fields, "History")
	})

	d, err := NewGate(DefaultGateConfig()).Evaluate(makePredictor(t, nil), candidate)
	require.NoError(t, err)

	assert.Equal(t, "reject", d.Action)
	require.NotEmpty(t, d.VetoSignals)
	assert.Equal(t, VetoCoverage, d.VetoSignals[0].Type)
	assert.Contains(t, d.Reason, "rejects 30 inputs")
	assert.Equal(t, 1080, d.Compared)
}

// #endregion gate-tests
