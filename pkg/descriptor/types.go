package descriptor

import (
	"github.com/google/jsonschema-go/jsonschema"
)

const (
	KindLaunchDescriptor = "LaunchDescriptor"

	// StartTypeStdio is the only supported start type: the child process
	// speaks MCP over its standard input/output.
	StartTypeStdio = "stdio"
)

// LaunchDescriptor declares how to start an external MCP server process and
// how a user-supplied configuration object maps onto its environment.
type LaunchDescriptor struct {
	// Name of the server this descriptor launches.
	Name string `json:"name" jsonschema:"required"`

	// Semantic version of the server.
	Version string `json:"version" jsonschema:"required"`

	// Human-readable description of the server.
	Description string `json:"description,omitempty" jsonschema:"optional"`

	// How to start the server process.
	StartCommand *StartCommand `json:"startCommand" jsonschema:"required"`
}

// StartCommand describes the command line, config schema, and environment
// mapping for one server process.
type StartCommand struct {
	// Start type. Only "stdio" is supported (default when empty).
	Type string `json:"type,omitempty" jsonschema:"optional"`

	// Command is the executable to run, e.g. "python".
	Command string `json:"command,omitempty" jsonschema:"optional"`

	// Args is the argument list passed to the command, e.g. ["server.py"].
	Args []string `json:"args,omitempty" jsonschema:"optional"`

	// CommandLine is a single-string alternative to Command/Args. It is
	// split with shell-style quoting rules at validation time. A descriptor
	// must set either Command or CommandLine, not both.
	CommandLine string `json:"commandLine,omitempty" jsonschema:"optional"`

	// WorkDir is the working directory for the child process. Empty means
	// the host's working directory.
	WorkDir string `json:"workDir,omitempty" jsonschema:"optional"`

	// ConfigSchema is the JSON Schema the configuration object must satisfy
	// before the descriptor is transformed into a launch spec.
	ConfigSchema *jsonschema.Schema `json:"configSchema,omitempty" jsonschema:"optional"`

	// Env declares the environment variables passed to the child process.
	Env []*EnvVar `json:"env,omitempty" jsonschema:"optional"`

	// Resolved config schema for validation (internal use only).
	resolvedConfigSchema *jsonschema.Resolved
}

// EnvVar maps one environment variable of the child process to either a
// configuration field or a literal value.
type EnvVar struct {
	// Name of the environment variable, e.g. CREDENTIALS_CONFIG.
	Name string `json:"name" jsonschema:"required"`

	// FromConfig names the configuration property whose value this variable
	// carries. Mutually exclusive with Value.
	FromConfig string `json:"fromConfig,omitempty" jsonschema:"optional"`

	// Value is a literal value for the variable. Mutually exclusive with
	// FromConfig.
	Value string `json:"value,omitempty" jsonschema:"optional"`

	// OmitIfAbsent leaves the variable out of the environment entirely when
	// the configuration property is absent, instead of setting it to "".
	OmitIfAbsent bool `json:"omitIfAbsent,omitempty" jsonschema:"optional"`
}

// LaunchSpec is the result of transforming a descriptor with a configuration
// object: everything the host needs to spawn the child process.
type LaunchSpec struct {
	// Command is the executable to run.
	Command string `json:"command"`

	// Args is the ordered argument list.
	Args []string `json:"args"`

	// Env maps environment variable names to values.
	Env map[string]string `json:"env"`

	// Dir is the working directory, empty for the host's.
	Dir string `json:"dir,omitempty"`
}

// LaunchDescriptorFile is the root structure of a launch descriptor file
// (launch.yaml).
type LaunchDescriptorFile struct {
	// Kind identifies the type of mcp-launch config file.
	Kind string `json:"kind" jsonschema:"required"`

	// Version of the mcp-launch config file format.
	SchemaVersion string `json:"schemaVersion" jsonschema:"required"`

	// Launch descriptor definition.
	LaunchDescriptor `json:",inline"`
}
