package descriptor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	tt := map[string]struct {
		testFileName  string
		wantErr       bool
		errorContains string
		check         func(t *testing.T, f *LaunchDescriptorFile)
	}{
		"google sheets descriptor": {
			testFileName: "google-sheets.yaml",
			check: func(t *testing.T, f *LaunchDescriptorFile) {
				assert.Equal(t, "google-sheets", f.Name)
				assert.Equal(t, "1.0.0", f.Version)
				require.NotNil(t, f.StartCommand)
				assert.Equal(t, "python", f.StartCommand.Command)
				assert.Equal(t, []string{"server.py"}, f.StartCommand.Args)
				require.NotNil(t, f.StartCommand.ConfigSchema)
				assert.Equal(t, "object", f.StartCommand.ConfigSchema.Type)
				assert.Equal(t, []string{"credentialsConfig"}, f.StartCommand.ConfigSchema.Required)
				assert.Contains(t, f.StartCommand.ConfigSchema.Properties, "credentialsConfig")
				assert.Contains(t, f.StartCommand.ConfigSchema.Properties, "defaultSpreadsheetId")
				require.Len(t, f.StartCommand.Env, 2)
				assert.Equal(t, "CREDENTIALS_CONFIG", f.StartCommand.Env[0].Name)
				assert.Equal(t, "credentialsConfig", f.StartCommand.Env[0].FromConfig)
				assert.Equal(t, "DEFAULT_SPREADSHEET_ID", f.StartCommand.Env[1].Name)
				assert.Equal(t, "defaultSpreadsheetId", f.StartCommand.Env[1].FromConfig)
			},
		},
		"command line form is split on defaults": {
			testFileName: "command-line.yaml",
			check: func(t *testing.T, f *LaunchDescriptorFile) {
				require.NotNil(t, f.StartCommand)
				assert.Equal(t, "python", f.StartCommand.Command)
				assert.Equal(t, []string{"-u", "server.py"}, f.StartCommand.Args)
				assert.Empty(t, f.StartCommand.CommandLine)
				assert.Equal(t, "/srv/echo", f.StartCommand.WorkDir)
				assert.Equal(t, StartTypeStdio, f.StartCommand.Type)
				require.Len(t, f.StartCommand.Env, 1)
				assert.Equal(t, "LOG_LEVEL", f.StartCommand.Env[0].Name)
				assert.Equal(t, "debug", f.StartCommand.Env[0].Value)
			},
		},
		"invalid schema version": {
			testFileName:  "invalid-schema-version.yaml",
			wantErr:       true,
			errorContains: "invalid schema version",
		},
		"invalid kind": {
			testFileName:  "invalid-kind.yaml",
			wantErr:       true,
			errorContains: "invalid kind",
		},
	}

	for testName, testCase := range tt {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()
			launchFile, err := ParseFile(fmt.Sprintf("./testdata/%s", testCase.testFileName))
			if testCase.wantErr {
				assert.Error(t, err, "parsing the launch descriptor file should cause an error")
				assert.ErrorContains(t, err, testCase.errorContains, "the error should contain the right message")
				return
			}

			require.NoError(t, err, "parsing the launch descriptor file should succeed")
			launchFile.ApplyDefaults()
			require.NoError(t, launchFile.Validate(), "the normalized descriptor should validate")
			testCase.check(t, launchFile)
		})
	}
}
