package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcplaunch/mcp-launch/pkg/cli/utils"
)

func init() {
	rootCmd.AddCommand(stopCmd)
	stopCmd.Flags().StringVarP(&stopDescriptorPath, "file", "f", "launch.yaml", "the path to the launch descriptor file")
}

var stopDescriptorPath string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a detached mcplaunch host",
	Run:   executeStopCmd,
}

func executeStopCmd(cobraCmd *cobra.Command, args []string) {
	descriptorPath, err := filepath.Abs(stopDescriptorPath)
	if err != nil {
		fmt.Printf("failed to resolve launch descriptor path: %s\n", err.Error())
		return
	}

	processManager, err := utils.GetProcessManager()
	if err != nil {
		fmt.Printf("failed to open process manager: %s\n", err.Error())
		return
	}

	pid, err := processManager.GetProcessId(descriptorPath)
	if err != nil {
		fmt.Printf("no running mcplaunch host found for %s\n", descriptorPath)
		return
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		fmt.Printf("failed to find process for pid %d: %s\n", pid, err.Error())
		if err := processManager.DeleteProcessId(descriptorPath); err != nil {
			fmt.Printf("failed to delete process id: %s\n", err.Error())
		}
		return
	}

	// SIGTERM lets the host shut the child down through its own grace period
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		fmt.Printf("failed to stop mcplaunch host with pid %d: %s\n", pid, err.Error())
		return
	}

	if err := processManager.DeleteProcessId(descriptorPath); err != nil {
		fmt.Printf("failed to delete process id: %s\n", err.Error())
	}

	fmt.Printf("successfully stopped mcplaunch host...\n")
}
