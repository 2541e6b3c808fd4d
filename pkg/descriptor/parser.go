package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/mcplaunch/mcp-launch/pkg/config"
)

// ParseFile parses a launch descriptor file (launch.yaml)
func ParseFile(path string) (*LaunchDescriptorFile, error) {
	launchFile := &LaunchDescriptorFile{}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path to launch descriptor file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read launch descriptor file: %v", err)
	}

	err = yaml.Unmarshal(data, launchFile)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal launch descriptor file: %v", err)
	}

	return launchFile, nil
}

func (l *LaunchDescriptorFile) UnmarshalJSON(data []byte) error {
	// First unmarshal into a temporary struct to get all fields
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Unmarshal Kind separately
	if k, ok := raw["kind"]; ok {
		if err := json.Unmarshal(k, &l.Kind); err != nil {
			return err
		}
	}

	// Validate kind
	if l.Kind == "" {
		return fmt.Errorf("kind field is required, expected %s", KindLaunchDescriptor)
	}
	if l.Kind != KindLaunchDescriptor {
		return fmt.Errorf("invalid kind %s, expected %s", l.Kind, KindLaunchDescriptor)
	}

	// Unmarshal SchemaVersion separately
	if sv, ok := raw["schemaVersion"]; ok {
		if err := json.Unmarshal(sv, &l.SchemaVersion); err != nil {
			return err
		}
	}

	if l.SchemaVersion != config.SchemaVersion {
		return fmt.Errorf("invalid schema version %s, expected %s - please migrate your file and handle any breaking changes", l.SchemaVersion, config.SchemaVersion)
	}

	// Unmarshal the rest into LaunchDescriptor
	if err := json.Unmarshal(data, &l.LaunchDescriptor); err != nil {
		return err
	}

	return nil
}

func (sc *StartCommand) UnmarshalJSON(data []byte) error {
	type Doppleganger StartCommand

	tmp := (*Doppleganger)(sc)

	err := json.Unmarshal(data, tmp)
	if err != nil {
		return err
	}

	if sc.ConfigSchema != nil {
		if sc.ConfigSchema.Type == "" {
			sc.ConfigSchema.Type = "object"
		}
	}

	return nil
}
