package host

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/mcplaunch/mcp-launch/pkg/config"
)

// ParseFile parses a host config file (host.yaml)
func ParseFile(path string) (*HostConfigFile, error) {
	hostFile := &HostConfigFile{}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path to host config file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host config file: %v", err)
	}

	err = yaml.Unmarshal(data, hostFile)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal host config file: %v", err)
	}

	return hostFile, nil
}

func (h *HostConfigFile) UnmarshalJSON(data []byte) error {
	// First unmarshal into a temporary struct to get all fields
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Unmarshal Kind separately
	if k, ok := raw["kind"]; ok {
		if err := json.Unmarshal(k, &h.Kind); err != nil {
			return err
		}
	}

	// Validate kind
	if h.Kind == "" {
		return fmt.Errorf("kind field is required, expected %s", KindHostConfig)
	}
	if h.Kind != KindHostConfig {
		return fmt.Errorf("invalid kind %s, expected %s", h.Kind, KindHostConfig)
	}

	// Unmarshal SchemaVersion separately
	if sv, ok := raw["schemaVersion"]; ok {
		if err := json.Unmarshal(sv, &h.SchemaVersion); err != nil {
			return err
		}
	}

	if h.SchemaVersion != config.SchemaVersion {
		return fmt.Errorf("invalid schema version %s, expected %s - please migrate your file and handle any breaking changes", h.SchemaVersion, config.SchemaVersion)
	}

	// Unmarshal the rest into HostConfig
	if err := json.Unmarshal(data, &h.HostConfig); err != nil {
		return err
	}

	return nil
}
