package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcplaunch/mcp-launch/pkg/runtime"
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateDescriptorPath, "file", "f", "launch.yaml", "the path to the launch descriptor file")
	validateCmd.Flags().StringVarP(&validateConfigJSON, "config", "c", "", "the user config as a JSON object (default: $"+ConfigEnvVar+")")
	validateCmd.Flags().StringVar(&validateConfigFilePath, "config-file", "", "the path to a JSON file holding the user config")
	validateCmd.Flags().BoolVar(&validateShowSpec, "show-spec", false, "print the launch spec derived from the config")
}

var validateDescriptorPath string
var validateConfigJSON string
var validateConfigFilePath string
var validateShowSpec bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a launch descriptor and, optionally, a config against it",
	Run:   executeValidateCmd,
}

func executeValidateCmd(cobraCmd *cobra.Command, args []string) {
	descriptorPath, err := filepath.Abs(validateDescriptorPath)
	if err != nil {
		fmt.Printf("failed to resolve launch descriptor path: %s\n", err.Error())
		os.Exit(1)
	}

	file, err := runtime.LoadDescriptor(descriptorPath)
	if err != nil {
		fmt.Printf("%s\n", err.Error())
		os.Exit(1)
	}

	fmt.Printf("launch descriptor %s is valid\n", descriptorPath)

	// The config is only checked when one was provided somewhere
	cfg, err := loadUserConfig(validateConfigJSON, validateConfigFilePath)
	if err != nil {
		fmt.Printf("invalid config: %s\n", err.Error())
		os.Exit(1)
	}

	configProvided := validateConfigJSON != "" || validateConfigFilePath != "" || os.Getenv(ConfigEnvVar) != ""
	if !configProvided && !validateShowSpec {
		return
	}

	spec, err := runtime.PrepareLaunch(&file.LaunchDescriptor, cfg)
	if err != nil {
		fmt.Printf("%s\n", err.Error())
		os.Exit(1)
	}

	fmt.Printf("config is valid for %s\n", file.Name)

	if validateShowSpec {
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			fmt.Printf("failed to marshal launch spec: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Println(string(data))
	}
}
