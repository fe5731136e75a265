package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replicate/buildgen/pkg/buildscript"
	"github.com/replicate/buildgen/pkg/checker"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/util/files"
)

func newBuildScriptCommand() *cobra.Command {
	f := &buildFlags{}
	var scriptFile string

	cmd := &cobra.Command{
		Use:   "build-script SOURCE_DIR",
		Short: "Generate a bash script that builds SOURCE_DIR",
		Long: `Generate a bash script that builds SOURCE_DIR.

The platforms are detected from the source unless --platform is passed. The
script is printed to stdout, or written to --script-file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildScriptCommand(cmd, args[0], f, scriptFile)
		},
	}
	addResolveFlags(cmd, f)
	addScriptFlags(cmd, f)
	cmd.Flags().StringVar(&scriptFile, "script-file", "", "Write the script to this file instead of stdout")
	return cmd
}

func buildScriptCommand(cmd *cobra.Command, sourceDir string, f *buildFlags, scriptFile string) error {
	s, err := openSession(cmd, sourceDir, f)
	if err != nil {
		return err
	}
	defer s.Close()

	gen := buildscript.NewGenerator(s.resolver, checker.NewRunner(checker.Defaults()...))

	var messages []checker.Message
	script, err := gen.GenerateBashScript(cmd.Context(), s.bc, &messages)
	printMessages(messages)
	if err != nil {
		return withHint(err)
	}

	if scriptFile != "" {
		if err := files.WriteIfDifferent(scriptFile, script); err != nil {
			return err
		}
		console.Infof("Build script written to %s", scriptFile)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), script)
	return err
}
