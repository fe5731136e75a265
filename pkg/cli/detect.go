package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/replicate/buildgen/pkg/platform"
)

type detectedPlatform struct {
	Platform        string `json:"platform"`
	Version         string `json:"version"`
	DetectedVersion string `json:"detected_version,omitempty"`
}

func newDetectCommand() *cobra.Command {
	f := &buildFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "detect SOURCE_DIR",
		Short: "Print the platforms and versions SOURCE_DIR would be built with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return detectCommand(cmd, args[0], f, format)
		},
	}
	addResolveFlags(cmd, f)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

func detectCommand(cmd *cobra.Command, sourceDir string, f *buildFlags, format string) error {
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q, expected text, json or yaml", format)
	}

	s, err := openSession(cmd, sourceDir, f)
	if err != nil {
		return err
	}
	defer s.Close()

	resolved, err := s.resolver.Resolve(cmd.Context(), s.bc)
	if err != nil {
		return withHint(err)
	}
	return writeDetected(cmd.OutOrStdout(), toDetected(resolved), format)
}

func toDetected(resolved []platform.Resolved) []detectedPlatform {
	out := make([]detectedPlatform, 0, len(resolved))
	for _, r := range resolved {
		d := detectedPlatform{Platform: r.Name(), Version: r.Version}
		if r.Detection != nil {
			d.DetectedVersion = r.Detection.Version
		}
		out = append(out, d)
	}
	return out
}

func writeDetected(w io.Writer, detected []detectedPlatform, format string) error {
	switch format {
	case "json":
		bs, err := json.MarshalIndent(detected, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bs))
		return err
	case "yaml":
		bs, err := yaml.Marshal(detected)
		if err != nil {
			return err
		}
		_, err = w.Write(bs)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tVERSION\tDETECTED")
	for _, d := range detected {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Platform, d.Version, orDefault(d.DetectedVersion, "-"))
	}
	return tw.Flush()
}
