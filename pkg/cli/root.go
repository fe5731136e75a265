package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/util/console"
)

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "buildgen",
		Short:   "Detect the platforms of a source repository and generate its build script and Dockerfile",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// This stops errors being printed because we print them in cmd/buildgen/main.go
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newBuildScriptCommand(),
		newDockerfileCommand(),
		newDetectCommand(),
		newPlatformsCommand(),
		newManifestCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}
