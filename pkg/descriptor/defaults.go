package descriptor

import (
	"github.com/google/shlex"
)

// ApplyDefaults applies default values to the LaunchDescriptorFile after parsing.
func (l *LaunchDescriptorFile) ApplyDefaults() {
	l.LaunchDescriptor.ApplyDefaults()
}

// ApplyDefaults applies default values to the LaunchDescriptor after parsing.
func (d *LaunchDescriptor) ApplyDefaults() {
	if d.StartCommand == nil {
		return
	}
	d.StartCommand.ApplyDefaults()
}

// ApplyDefaults applies default values to StartCommand. A commandLine form is
// normalized into Command/Args so that the rest of the host only ever sees
// the split form.
func (sc *StartCommand) ApplyDefaults() {
	if sc.Type == "" {
		sc.Type = StartTypeStdio
	}

	if sc.Command == "" && sc.CommandLine != "" {
		parts, err := shlex.Split(sc.CommandLine)
		if err != nil || len(parts) == 0 {
			// Validate reports the error, nothing to normalize here
			return
		}
		sc.Command = parts[0]
		sc.Args = parts[1:]
		// Consumed: clearing it keeps Validate's exclusivity check scoped
		// to descriptors that set both forms explicitly.
		sc.CommandLine = ""
	}
}
