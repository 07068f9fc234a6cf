package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/predict"
)

func makePredictor(t *testing.T, mutate func(a *model.Artifact)) *predict.Predictor {
	t.Helper()
	a, err := model.Parse(model.DefaultArtifact())
	require.NoError(t, err)
	if mutate != nil {
		mutate(a)
	}
	m, err := a.Build()
	require.NoError(t, err)
	p, err := predict.New(m, predict.WithCacheSize(0))
	require.NoError(t, err)
	return p
}

func TestEvalPassesOnDefaultModel(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())

	result, err := h.Run(makePredictor(t, nil))
	require.NoError(t, err)

	assert.True(t, result.Passed, result.Reason)
	assert.Equal(t, "all checks passed", result.Reason)
	assert.Equal(t, 6*37*5, result.Probes)
	assert.Len(t, result.Metrics, 5)

	mean, ok := result.Metric("probe_mean_output")
	require.True(t, ok)
	assert.Greater(t, mean.Value, 30000.0)
	assert.Less(t, mean.Value, 150000.0)
}

func TestEvalFailsOnLargeWeight(t *testing.T) {
	config := DefaultEvalConfig()
	config.MaxAbsWeight = 10
	h := NewEvalHarness(config)

	result, err := h.Run(makePredictor(t, nil))
	require.NoError(t, err)

	assert.False(t, result.Passed)
	m, ok := result.Metric("max_abs_weight")
	require.True(t, ok)
	assert.False(t, m.Pass)
	assert.Contains(t, result.Reason, "max |weight|")
}

func TestEvalFailsWhenOutputsClamp(t *testing.T) {
	p := makePredictor(t, func(a *model.Artifact) {
		a.Biases["out1"] = -1e7
	})

	result, err := NewEvalHarness(DefaultEvalConfig()).Run(p)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	zero, ok := result.Metric("probe_zero_ratio")
	require.True(t, ok)
	assert.Equal(t, 1.0, zero.Value)
	assert.False(t, zero.Pass)
	assert.Contains(t, result.Reason, "zero-output ratio")
}

func TestEvalInformationalMetricsNeverFail(t *testing.T) {
	result, err := NewEvalHarness(DefaultEvalConfig()).Run(makePredictor(t, nil))
	require.NoError(t, err)

	for _, name := range []string{"probe_mean_output", "dead_hidden_nodes"} {
		m, ok := result.Metric(name)
		require.True(t, ok, name)
		assert.True(t, m.Pass, name)
	}
	_, ok := result.Metric("nope")
	assert.False(t, ok)
}
