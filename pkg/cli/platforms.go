package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/replicate/buildgen/pkg/config"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/platforms"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/util/files"
)

func newPlatformsCommand() *cobra.Command {
	var installed bool
	var configFile string

	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "List the supported platforms and their versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(".", configFile)
			if err != nil {
				return withHint(err)
			}
			registry := platforms.Default(platforms.Options{
				InstallRoot: opts.DynamicInstallRoot,
				BuiltInRoot: opts.BuiltInRoot,
				Disabled:    opts.DisabledPlatforms,
			})
			if installed {
				return listInstalled(cmd.OutOrStdout(), registry, opts)
			}
			return listPlatforms(cmd.OutOrStdout(), registry)
		},
	}
	cmd.Flags().BoolVar(&installed, "installed", false, "Only list versions that are already installed")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to a config file, defaults to buildgen.yaml in the current directory")
	return cmd
}

func listPlatforms(w io.Writer, registry []platform.Platform) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDEFAULT\tENABLED\tMULTI-PLATFORM\tVERSIONS")
	for _, p := range registry {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name(),
			p.DefaultVersion(),
			yesNo(p.Enabled()),
			yesNo(p.EnabledForMultiPlatformBuild()),
			strings.Join(p.SupportedVersions(), ", "),
		)
	}
	return tw.Flush()
}

func listInstalled(w io.Writer, registry []platform.Platform, opts *config.Options) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tINSTALLED")
	for _, p := range registry {
		for _, v := range p.SupportedVersions() {
			if !p.IsVersionAlreadyInstalled(v) {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name(), v, installedAt(opts.DynamicInstallRoot, p.Name(), v))
		}
	}
	return tw.Flush()
}

// installedAt describes when name/version was installed dynamically. Versions
// without a sentinel come with the build image.
func installedAt(root, name, version string) string {
	sentinel := platform.SentinelPath(root, name, version)
	if !files.ExistsQuiet(sentinel) {
		return "built-in"
	}
	return console.FormatTime(files.ModTime(sentinel))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
