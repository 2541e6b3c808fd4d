package descriptor

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Transform maps a configuration object onto a launch spec. It is a pure
// function over its inputs: the command line depends only on the descriptor,
// the environment only on the declared env mapping and the configuration
// values. Callers are expected to have run ValidateConfig first; Transform
// itself never fails.
func (sc *StartCommand) Transform(cfg map[string]any) *LaunchSpec {
	spec := &LaunchSpec{
		Command: sc.Command,
		Args:    slices.Clone(sc.Args),
		Env:     make(map[string]string, len(sc.Env)),
		Dir:     sc.WorkDir,
	}
	if spec.Args == nil {
		spec.Args = []string{}
	}

	for _, ev := range sc.Env {
		if ev.FromConfig == "" {
			spec.Env[ev.Name] = ev.Value
			continue
		}

		val, ok := cfg[ev.FromConfig]
		if !ok || val == nil {
			if ev.OmitIfAbsent {
				continue
			}
			spec.Env[ev.Name] = ""
			continue
		}

		spec.Env[ev.Name] = envValueString(val)
	}

	return spec
}

// envValueString renders a configuration value as an environment variable
// value. Strings pass through byte-exact; everything else is rendered the
// way it would appear in a JSON document.
func envValueString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
