package cli

import (
	"fmt"
	"io/fs"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/manifest"
	"github.com/replicate/buildgen/pkg/util/files"
)

func newManifestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest DIR",
		Short: "Print the build manifest written to DIR by a build script",
		Args:  cobra.ExactArgs(1),
		RunE:  manifestCommand,
	}
}

func manifestCommand(cmd *cobra.Command, args []string) error {
	dir, err := files.ExpandPath(args[0])
	if err != nil {
		return err
	}

	m, err := manifest.Read(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.WithHint(
				errors.Newf("no %s in %s", global.ManifestFilename, dir),
				"The manifest is written at the end of a successful build, to --manifest-dir or the destination directory.",
			)
		}
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, k := range m.Keys() {
		fmt.Fprintf(tw, "%s\t%s\n", k, m[k])
	}
	return tw.Flush()
}
