package cli

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcplaunch/mcp-launch/pkg/cli/utils"
	"github.com/mcplaunch/mcp-launch/pkg/config/host"
	"github.com/mcplaunch/mcp-launch/pkg/runtime"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runDescriptorPath, "file", "f", "launch.yaml", "the path to the launch descriptor file")
	runCmd.Flags().StringVarP(&runHostConfigPath, "host-config", "s", "", "the path to the host config file (default: stdio host)")
	runCmd.Flags().StringVarP(&runConfigJSON, "config", "c", "", "the user config as a JSON object (default: $"+ConfigEnvVar+")")
	runCmd.Flags().StringVar(&runConfigFilePath, "config-file", "", "the path to a JSON file holding the user config")
	runCmd.Flags().BoolVarP(&runDetach, "detach", "d", false, "whether to detach when running")
}

var runDescriptorPath string
var runHostConfigPath string
var runConfigJSON string
var runConfigFilePath string
var runDetach bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the MCP server a descriptor declares",
	Run:   executeRunCmd,
}

func executeRunCmd(cobraCmd *cobra.Command, args []string) {
	descriptorPath, err := filepath.Abs(runDescriptorPath)
	if err != nil {
		fmt.Printf("failed to resolve launch descriptor path: %s\n", err.Error())
		return
	}

	if _, err := os.Stat(descriptorPath); err != nil {
		fmt.Printf("no file found at launch descriptor path: %s\n", descriptorPath)
		return
	}

	hostConfigPath := ""
	if runHostConfigPath != "" {
		hostConfigPath, err = filepath.Abs(runHostConfigPath)
		if err != nil {
			fmt.Printf("failed to resolve host config path: %s\n", err.Error())
			return
		}
		if _, err := os.Stat(hostConfigPath); err != nil {
			fmt.Printf("no file found at host config path: %s\n", hostConfigPath)
			return
		}
	}

	// Validate eagerly so config mistakes surface before any detach
	if _, err := runtime.LoadDescriptor(descriptorPath); err != nil {
		fmt.Printf("invalid launch descriptor: %s\n", err.Error())
		return
	}

	hostConfig, err := runtime.LoadHostConfig(hostConfigPath)
	if err != nil {
		fmt.Printf("invalid host config: %s\n", err.Error())
		return
	}

	cfg, err := loadUserConfig(runConfigJSON, runConfigFilePath)
	if err != nil {
		fmt.Printf("invalid config: %s\n", err.Error())
		return
	}

	// Detaching a stdio host would orphan its transport
	if hostConfig.Runtime.TransportProtocol == host.TransportProtocolStdio && runDetach {
		runDetach = false
	}

	if !runDetach {
		ctx, stop := signal.NotifyContext(cobraCmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runtime.RunHost(ctx, descriptorPath, hostConfigPath, cfg); err != nil {
			fmt.Printf("mcplaunch failed with %s\n", err.Error())
		}
		return
	}

	// Detached mode: spawn the same command without --detach
	detachedArgs := []string{"run", "-f", descriptorPath}
	if hostConfigPath != "" {
		detachedArgs = append(detachedArgs, "-s", hostConfigPath)
	}
	if runConfigJSON != "" {
		detachedArgs = append(detachedArgs, "-c", runConfigJSON)
	}
	if runConfigFilePath != "" {
		detachedArgs = append(detachedArgs, "--config-file", runConfigFilePath)
	}

	cmd := exec.Command(os.Args[0], detachedArgs...)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		fmt.Printf("failed to start mcplaunch host: %s\n", err.Error())
		return
	}

	processManager, err := utils.GetProcessManager()
	if err != nil {
		fmt.Printf("failed to open process manager, to stop the host you will need to manually kill pid %d: %s\n", cmd.Process.Pid, err.Error())
		return
	}

	if err := processManager.SaveProcessId(descriptorPath, cmd.Process.Pid); err != nil {
		fmt.Printf("failed to save pid for mcplaunch host, to stop the host you will need to manually kill pid %d: %s\n", cmd.Process.Pid, err.Error())
	}

	fmt.Printf("successfully started mcplaunch host...\n")
}
