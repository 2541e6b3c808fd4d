package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cliVersion string

var rootCmd = &cobra.Command{
	Use:   "mcplaunch",
	Short: "mcplaunch runs MCP servers from declarative launch descriptors",
}

func Execute(version string) {
	if version == "" {
		version = devVersion()
	}
	cliVersion = version

	// a .env next to the descriptor is a convenient place for local config
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// devVersion builds a version string from vcs build info for binaries that
// were not built through the release ldflags.
func devVersion() string {
	commit := "unknown"
	dirty := false

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				commit = setting.Value
				if len(commit) > 7 {
					commit = commit[:7]
				}
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
	}

	if dirty {
		return fmt.Sprintf("dev@%s+dirty", commit)
	}
	return fmt.Sprintf("dev@%s", commit)
}
