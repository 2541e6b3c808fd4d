package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConfigEnvVar is consulted for the user config when neither --config nor
// --config-file is given.
const ConfigEnvVar = "MCPLAUNCH_CONFIG"

// loadUserConfig resolves the user config as a JSON object from, in order of
// precedence: the --config flag, the --config-file flag, and $MCPLAUNCH_CONFIG.
// No config at all yields an empty map so the descriptor's schema decides
// whether that is acceptable.
func loadUserConfig(configJSON, configFilePath string) (map[string]any, error) {
	raw := []byte(configJSON)

	if len(raw) == 0 && configFilePath != "" {
		data, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		raw = data
	}

	if len(raw) == 0 {
		raw = []byte(os.Getenv(ConfigEnvVar))
	}

	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config must be a JSON object: %w", err)
	}

	return cfg, nil
}
