package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replicate/buildgen/pkg/dockerfile"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/util/files"
)

func newDockerfileCommand() *cobra.Command {
	f := &buildFlags{}
	var outputFile string

	cmd := &cobra.Command{
		Use:   "dockerfile SOURCE_DIR",
		Short: "Generate a Dockerfile that builds SOURCE_DIR and packages it on a runtime image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dockerfileCommand(cmd, args[0], f, outputFile)
		},
	}
	addResolveFlags(cmd, f)
	addDockerfileFlags(cmd, f)
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write the Dockerfile to this file instead of stdout")
	return cmd
}

func dockerfileCommand(cmd *cobra.Command, sourceDir string, f *buildFlags, outputFile string) error {
	s, err := openSession(cmd, sourceDir, f)
	if err != nil {
		return err
	}
	defer s.Close()

	rules, err := dockerfile.LoadRules(s.opts.ImageRules)
	if err != nil {
		return withHint(err)
	}
	console.Debugf("Loaded %d base image rules", rules.Len())

	gen := dockerfile.NewGenerator(s.resolver, rules)
	gen.BuildImage = s.opts.BuildImage
	gen.RuntimeImage = s.opts.RuntimeImage

	contents, err := gen.GenerateDockerfile(cmd.Context(), s.bc)
	if err != nil {
		return withHint(err)
	}

	if outputFile != "" {
		if err := files.WriteIfDifferent(outputFile, contents); err != nil {
			return err
		}
		console.Infof("Dockerfile written to %s", outputFile)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), contents)
	return err
}
