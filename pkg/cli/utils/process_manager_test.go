package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestProcessManager(t *testing.T) *ProcessManager {
	t.Helper()

	return &ProcessManager{
		filePath: filepath.Join(t.TempDir(), "processes.json"),
	}
}

func TestProcessManagerRoundTrip(t *testing.T) {
	pm := setupTestProcessManager(t)

	require.NoError(t, pm.SaveProcessId("/path/to/launch.yaml", 1234))

	pid, err := pm.GetProcessId("/path/to/launch.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1234, pid)

	require.NoError(t, pm.DeleteProcessId("/path/to/launch.yaml"))

	_, err = pm.GetProcessId("/path/to/launch.yaml")
	assert.Error(t, err, "a deleted pid should no longer resolve")
}

func TestGetProcessIdMissing(t *testing.T) {
	pm := setupTestProcessManager(t)

	_, err := pm.GetProcessId("/path/that/was/never/saved.yaml")
	assert.ErrorContains(t, err, "no matching pid")
}

func TestSaveProcessIdOverwrites(t *testing.T) {
	pm := setupTestProcessManager(t)

	require.NoError(t, pm.SaveProcessId("/path/to/launch.yaml", 1111))
	require.NoError(t, pm.SaveProcessId("/path/to/launch.yaml", 2222))

	pid, err := pm.GetProcessId("/path/to/launch.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2222, pid)
}
