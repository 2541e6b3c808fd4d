package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/utils/ptr"

	"github.com/mcplaunch/mcp-launch/pkg/config/host"
	"github.com/mcplaunch/mcp-launch/pkg/descriptor"
	"github.com/mcplaunch/mcp-launch/pkg/runtime"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectDescriptorPath, "file", "f", "launch.yaml", "the path to the launch descriptor file")
	inspectCmd.Flags().StringVarP(&inspectHostConfigPath, "host-config", "s", "", "the path to the host config file")
	inspectCmd.Flags().BoolVar(&inspectJSONOutput, "json", false, "output in JSON format")
}

var inspectDescriptorPath string
var inspectHostConfigPath string
var inspectJSONOutput bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show detailed launch descriptor information",
	Long: `Display detailed information about a launch descriptor: the command it
launches, the config fields it accepts, how they map onto environment
variables, the host transport, and the MCP client configuration JSON.`,
	Args: cobra.NoArgs,
	Run:  executeInspectCmd,
}

// InspectOutput represents the complete inspection output
type InspectOutput struct {
	Server          ServerInfo     `json:"server"`
	Launch          LaunchInfo     `json:"launch"`
	Config          []ConfigField  `json:"config"`
	Transport       TransportInfo  `json:"transport"`
	Security        SecurityInfo   `json:"security"`
	MCPClientConfig map[string]any `json:"mcpClientConfig"`
}

// ServerInfo contains the descriptor's metadata
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// LaunchInfo describes the command the descriptor launches
type LaunchInfo struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	WorkDir string   `json:"workDir,omitempty"`
}

// ConfigField describes one config property and the env var it feeds
type ConfigField struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	EnvVar      string `json:"envVar,omitempty"`
}

// TransportInfo contains the host transport configuration
type TransportInfo struct {
	Protocol  string      `json:"protocol"`
	Port      int         `json:"port,omitempty"`
	BasePath  string      `json:"basePath,omitempty"`
	Stateless bool        `json:"stateless,omitempty"`
	Health    *HealthInfo `json:"health,omitempty"`
}

// HealthInfo contains health check configuration
type HealthInfo struct {
	Enabled       bool   `json:"enabled"`
	LivenessPath  string `json:"livenessPath"`
	ReadinessPath string `json:"readinessPath"`
}

// SecurityInfo contains security configuration status
type SecurityInfo struct {
	TLS  *TLSInfo  `json:"tls,omitempty"`
	Auth *AuthInfo `json:"auth,omitempty"`
}

// TLSInfo contains TLS status
type TLSInfo struct {
	Enabled bool `json:"enabled"`
}

// AuthInfo contains auth status
type AuthInfo struct {
	Enabled              bool     `json:"enabled"`
	JWKSURI              string   `json:"jwksUri,omitempty"`
	AuthorizationServers []string `json:"authorizationServers,omitempty"`
}

func executeInspectCmd(cmd *cobra.Command, args []string) {
	descriptorPath, err := filepath.Abs(inspectDescriptorPath)
	if err != nil {
		fmt.Printf("failed to resolve launch descriptor path: %s\n", err.Error())
		os.Exit(1)
	}

	file, err := runtime.LoadDescriptor(descriptorPath)
	if err != nil {
		fmt.Printf("invalid launch descriptor: %s\n", err)
		os.Exit(1)
	}

	hostConfigPath := ""
	if inspectHostConfigPath != "" {
		hostConfigPath, err = filepath.Abs(inspectHostConfigPath)
		if err != nil {
			fmt.Printf("failed to resolve host config path: %s\n", err.Error())
			os.Exit(1)
		}
	}

	hostConfig, err := runtime.LoadHostConfig(hostConfigPath)
	if err != nil {
		fmt.Printf("invalid host config: %s\n", err)
		os.Exit(1)
	}

	output := buildInspectOutput(&file.LaunchDescriptor, hostConfig, descriptorPath, hostConfigPath)

	if inspectJSONOutput {
		printJSONOutput(output)
	} else {
		printHumanReadableOutput(output)
	}
}

func buildInspectOutput(d *descriptor.LaunchDescriptor, hostConfig *host.HostConfig, descriptorPath, hostConfigPath string) InspectOutput {
	output := InspectOutput{
		Server: ServerInfo{
			Name:        d.Name,
			Version:     d.Version,
			Description: d.Description,
		},
		Launch: LaunchInfo{
			Command: d.StartCommand.Command,
			Args:    d.StartCommand.Args,
			WorkDir: d.StartCommand.WorkDir,
		},
		Config: buildConfigFields(d.StartCommand),
	}

	output.Transport = buildTransportInfo(hostConfig)
	output.Security = buildSecurityInfo(hostConfig)
	output.MCPClientConfig = buildMCPClientConfig(d.Name, hostConfig, descriptorPath, hostConfigPath)

	return output
}

// buildConfigFields flattens the config schema and the env mapping into one
// per-field view.
func buildConfigFields(sc *descriptor.StartCommand) []ConfigField {
	fields := make([]ConfigField, 0)
	if sc.ConfigSchema == nil {
		return fields
	}

	required := make(map[string]bool, len(sc.ConfigSchema.Required))
	for _, name := range sc.ConfigSchema.Required {
		required[name] = true
	}

	envByConfig := make(map[string]string, len(sc.Env))
	for _, ev := range sc.Env {
		if ev.FromConfig != "" {
			envByConfig[ev.FromConfig] = ev.Name
		}
	}

	for name, prop := range sc.ConfigSchema.Properties {
		field := ConfigField{
			Name:     name,
			Required: required[name],
			EnvVar:   envByConfig[name],
		}
		if prop != nil {
			field.Description = prop.Description
		}
		fields = append(fields, field)
	}

	return fields
}

func buildTransportInfo(hostConfig *host.HostConfig) TransportInfo {
	info := TransportInfo{
		Protocol: host.TransportProtocolStdio,
	}

	if hostConfig.Runtime == nil {
		return info
	}

	info.Protocol = hostConfig.Runtime.TransportProtocol

	if httpConfig := hostConfig.Runtime.StreamableHTTPConfig; httpConfig != nil {
		info.Port = httpConfig.Port
		info.BasePath = httpConfig.BasePath
		info.Stateless = ptr.Deref(httpConfig.Stateless, true)

		if httpConfig.Health != nil {
			info.Health = &HealthInfo{
				Enabled:       ptr.Deref(httpConfig.Health.Enabled, false),
				LivenessPath:  httpConfig.Health.LivenessPath,
				ReadinessPath: httpConfig.Health.ReadinessPath,
			}
		}
	}

	return info
}

func buildSecurityInfo(hostConfig *host.HostConfig) SecurityInfo {
	security := SecurityInfo{}

	if hostConfig.Runtime == nil || hostConfig.Runtime.StreamableHTTPConfig == nil {
		return security
	}
	httpConfig := hostConfig.Runtime.StreamableHTTPConfig

	if tls := httpConfig.TLS; tls != nil && (tls.CertFile != "" || tls.KeyFile != "") {
		security.TLS = &TLSInfo{Enabled: true}
	}

	if auth := httpConfig.Auth; auth != nil && (auth.JWKSURI != "" || len(auth.AuthorizationServers) > 0) {
		security.Auth = &AuthInfo{
			Enabled:              true,
			JWKSURI:              auth.JWKSURI,
			AuthorizationServers: auth.AuthorizationServers,
		}
	}

	return security
}

func buildMCPClientConfig(serverName string, hostConfig *host.HostConfig, descriptorPath, hostConfigPath string) map[string]any {
	mcpServers := make(map[string]any)

	protocol := host.TransportProtocolStdio
	if hostConfig.Runtime != nil {
		protocol = hostConfig.Runtime.TransportProtocol
	}

	if protocol == host.TransportProtocolStdio {
		cmdArgs := []string{"run", "-f", descriptorPath}
		if hostConfigPath != "" {
			cmdArgs = append(cmdArgs, "-s", hostConfigPath)
		}
		mcpServers[serverName] = map[string]any{
			"command": "mcplaunch",
			"args":    cmdArgs,
		}
	} else {
		port := host.DefaultPort
		basePath := host.DefaultBasePath
		scheme := "http"

		if hostConfig.Runtime != nil && hostConfig.Runtime.StreamableHTTPConfig != nil {
			httpConfig := hostConfig.Runtime.StreamableHTTPConfig
			if httpConfig.Port > 0 {
				port = httpConfig.Port
			}
			if httpConfig.BasePath != "" {
				basePath = httpConfig.BasePath
			}
			if httpConfig.TLS != nil && (httpConfig.TLS.CertFile != "" || httpConfig.TLS.KeyFile != "") {
				scheme = "https"
			}
		}

		mcpServers[serverName] = map[string]any{
			"type": "http",
			"url":  fmt.Sprintf("%s://localhost:%d%s", scheme, port, basePath),
		}
	}

	return map[string]any{
		"mcpServers": mcpServers,
	}
}

func printJSONOutput(output InspectOutput) {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("failed to marshal JSON: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printHumanReadableOutput(output InspectOutput) {
	fmt.Printf("Server: %s (v%s)\n", output.Server.Name, output.Server.Version)
	if output.Server.Description != "" {
		fmt.Printf("Description: %s\n", truncateString(output.Server.Description, 80))
	}
	fmt.Printf("Transport: %s\n", output.Transport.Protocol)

	if output.Transport.Protocol == host.TransportProtocolStreamableHttp {
		scheme := "http"
		if output.Security.TLS != nil && output.Security.TLS.Enabled {
			scheme = "https"
		}
		fmt.Printf("Endpoint: %s://localhost:%d%s\n", scheme, output.Transport.Port, output.Transport.BasePath)
	}

	fmt.Println("\nLaunch:")
	fmt.Printf("  Command: %s %s\n", output.Launch.Command, strings.Join(output.Launch.Args, " "))
	if output.Launch.WorkDir != "" {
		fmt.Printf("  WorkDir: %s\n", output.Launch.WorkDir)
	}

	fmt.Printf("\nConfig (%d fields):\n", len(output.Config))
	for _, field := range output.Config {
		requirement := "optional"
		if field.Required {
			requirement = "required"
		}
		line := fmt.Sprintf("  - %s (%s)", field.Name, requirement)
		if field.EnvVar != "" {
			line += fmt.Sprintf(" -> $%s", field.EnvVar)
		}
		if field.Description != "" {
			line += ": " + truncateString(field.Description, 60)
		}
		fmt.Println(line)
	}

	fmt.Println("\nSecurity:")
	if output.Security.TLS != nil && output.Security.TLS.Enabled {
		fmt.Println("  TLS: enabled (cert configured)")
	} else {
		fmt.Println("  TLS: disabled")
	}
	if output.Security.Auth != nil && output.Security.Auth.Enabled {
		fmt.Println("  Auth: enabled (OAuth 2.0)")
	} else {
		fmt.Println("  Auth: disabled")
	}

	if output.Transport.Health != nil && output.Transport.Health.Enabled {
		fmt.Println("\nHealth Endpoints:")
		fmt.Printf("  Liveness: %s\n", output.Transport.Health.LivenessPath)
		fmt.Printf("  Readiness: %s\n", output.Transport.Health.ReadinessPath)
	}

	fmt.Println("\nMCP Client Configuration:")
	clientConfigJSON, _ := json.MarshalIndent(output.MCPClientConfig, "", "  ")
	for _, line := range strings.Split(string(clientConfigJSON), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
