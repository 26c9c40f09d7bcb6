package segment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutModelPath(t *testing.T) {
	est := Load(DefaultConfig())
	require.NotNil(t, est)
	assert.Equal(t, "heuristic", est.Name())
}

func TestLoadFallsBackOnMissingModel(t *testing.T) {
	config := DefaultConfig()
	config.ModelPath = filepath.Join(t.TempDir(), "absent.onnx")

	// Model load failures degrade to the heuristic instead of erroring.
	est := Load(config)
	require.NotNil(t, est)
	assert.Equal(t, "heuristic", est.Name())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Empty(t, config.ModelPath)
	assert.Equal(t, defaultModelInputSize, config.InputSize)
	assert.Equal(t, DefaultHeuristicConfig(), config.Heuristic)
}
