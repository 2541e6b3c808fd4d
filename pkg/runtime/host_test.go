package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcplaunch/mcp-launch/pkg/config/host"
)

func TestLoadDescriptor(t *testing.T) {
	t.Parallel()

	file, err := LoadDescriptor("testdata/google-sheets.yaml")
	require.NoError(t, err)
	assert.Equal(t, "google-sheets", file.Name)
	assert.Equal(t, "python", file.StartCommand.Command)
}

func TestLoadDescriptorCommandLineForm(t *testing.T) {
	t.Parallel()

	file, err := LoadDescriptor("testdata/command-line.yaml")
	require.NoError(t, err, "a commandLine descriptor should load cleanly")
	assert.Equal(t, "python", file.StartCommand.Command)
	assert.Equal(t, []string{"-u", "server.py"}, file.StartCommand.Args)
	assert.Empty(t, file.StartCommand.CommandLine, "commandLine is consumed by normalization")
}

func TestLoadDescriptorMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadDescriptor("testdata/does-not-exist.yaml")
	assert.ErrorContains(t, err, "failed to parse launch descriptor")
}

func TestLoadHostConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadHostConfig("testdata/host-http.yaml")
	require.NoError(t, err)
	assert.Equal(t, host.TransportProtocolStreamableHttp, cfg.Runtime.TransportProtocol)
	assert.Equal(t, 8008, cfg.Runtime.StreamableHTTPConfig.Port)
	// defaults are applied on load
	assert.Equal(t, host.DefaultBasePath, cfg.Runtime.StreamableHTTPConfig.BasePath)
}

func TestLoadHostConfigDefault(t *testing.T) {
	t.Parallel()

	cfg, err := LoadHostConfig("")
	require.NoError(t, err)
	assert.Equal(t, host.TransportProtocolStdio, cfg.Runtime.TransportProtocol)
}

func TestPrepareLaunch(t *testing.T) {
	t.Parallel()

	file, err := LoadDescriptor("testdata/google-sheets.yaml")
	require.NoError(t, err)

	t.Run("valid config produces launch spec", func(t *testing.T) {
		t.Parallel()

		spec, err := PrepareLaunch(&file.LaunchDescriptor, map[string]any{
			"credentialsConfig":    `{"type": "service_account"}`,
			"defaultSpreadsheetId": "sheet-123",
		})
		require.NoError(t, err)

		assert.Equal(t, "python", spec.Command)
		assert.Equal(t, []string{"server.py"}, spec.Args)
		assert.Equal(t, `{"type": "service_account"}`, spec.Env["CREDENTIALS_CONFIG"])
		assert.Equal(t, "sheet-123", spec.Env["DEFAULT_SPREADSHEET_ID"])
	})

	t.Run("config missing required field is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := PrepareLaunch(&file.LaunchDescriptor, map[string]any{
			"defaultSpreadsheetId": "sheet-123",
		})
		assert.ErrorContains(t, err, "does not satisfy the descriptor's schema")
	})

	t.Run("config with wrong type is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := PrepareLaunch(&file.LaunchDescriptor, map[string]any{
			"credentialsConfig": 42,
		})
		assert.Error(t, err)
	})
}
