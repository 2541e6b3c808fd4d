package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

func (l *LaunchDescriptorFile) Validate() error {
	return l.LaunchDescriptor.Validate()
}

func (d *LaunchDescriptor) Validate() error {
	var err error = nil
	if d.Name == "" {
		err = errors.Join(err, fmt.Errorf("invalid launch descriptor: name is required"))
	}

	if d.Version == "" {
		err = errors.Join(err, fmt.Errorf("invalid launch descriptor: version is required"))
	}

	if d.StartCommand == nil {
		err = errors.Join(err, fmt.Errorf("invalid launch descriptor: startCommand is required"))
	} else if scErr := d.StartCommand.Validate(); scErr != nil {
		err = errors.Join(err, fmt.Errorf("invalid launch descriptor: startCommand is invalid: %w", scErr))
	}

	return err
}

func (sc *StartCommand) Validate() error {
	var err error = nil

	if sc.Type != "" && strings.ToLower(sc.Type) != StartTypeStdio {
		err = errors.Join(err, fmt.Errorf("invalid start command: type %q is not supported, expected %q", sc.Type, StartTypeStdio))
	}

	if sc.Command == "" && sc.CommandLine == "" {
		err = errors.Join(err, fmt.Errorf("invalid start command: one of command or commandLine is required"))
	}

	if sc.CommandLine != "" {
		if _, splitErr := shlex.Split(sc.CommandLine); splitErr != nil {
			err = errors.Join(err, fmt.Errorf("invalid start command: commandLine cannot be split: %w", splitErr))
		}
		if sc.Command != "" || len(sc.Args) > 0 {
			err = errors.Join(err, fmt.Errorf("invalid start command: commandLine and command/args are mutually exclusive"))
		}
	}

	if sc.ConfigSchema != nil {
		if strings.ToLower(sc.ConfigSchema.Type) != "object" {
			err = errors.Join(err, fmt.Errorf("invalid start command: configSchema must be type object at the root"))
		}

		resolved, schemaErr := sc.ConfigSchema.Resolve(nil)
		if schemaErr != nil {
			err = errors.Join(err, fmt.Errorf("invalid start command: configSchema is not valid: %w", schemaErr))
		} else {
			sc.resolvedConfigSchema = resolved
		}
	}

	seen := make(map[string]bool, len(sc.Env))
	for i, ev := range sc.Env {
		if evErr := ev.Validate(); evErr != nil {
			err = errors.Join(err, fmt.Errorf("invalid start command: env[%d] is invalid: %w", i, evErr))
		}
		if ev.Name != "" && seen[ev.Name] {
			err = errors.Join(err, fmt.Errorf("invalid start command: env[%d] redeclares variable %s", i, ev.Name))
		}
		seen[ev.Name] = true
	}

	return err
}

func (ev *EnvVar) Validate() error {
	var err error = nil
	if ev.Name == "" {
		err = errors.Join(err, fmt.Errorf("invalid env var: name is required"))
	}

	if ev.FromConfig != "" && ev.Value != "" {
		err = errors.Join(err, fmt.Errorf("invalid env var: fromConfig and value are mutually exclusive"))
	}

	if ev.FromConfig == "" && ev.Value == "" {
		err = errors.Join(err, fmt.Errorf("invalid env var: one of fromConfig or value is required"))
	}

	return err
}

// ValidateConfig checks a configuration object against the descriptor's
// config schema. This is the host-side gate: configurations missing a
// required property never reach Transform.
func (sc *StartCommand) ValidateConfig(cfg map[string]any) error {
	if sc.ConfigSchema == nil {
		return nil
	}

	resolved := sc.resolvedConfigSchema
	if resolved == nil {
		var err error
		resolved, err = sc.ConfigSchema.Resolve(nil)
		if err != nil {
			return fmt.Errorf("failed to resolve config schema: %w", err)
		}
		sc.resolvedConfigSchema = resolved
	}

	if cfg == nil {
		cfg = map[string]any{}
	}

	if err := resolved.Validate(cfg); err != nil {
		return fmt.Errorf("configuration does not match the descriptor's config schema: %w", err)
	}

	return nil
}
