package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// buildFlags holds the flags shared by the commands that resolve platforms.
// Zero values defer to buildgen.yaml and the environment.
type buildFlags struct {
	configFile      string
	platform        string
	platformVersion string
	properties      propertiesValue

	destination  string
	intermediate string
	manifestDir  string

	runtimePlatform string
	imageRules      string
}

// addResolveFlags registers the flags that influence platform resolution.
func addResolveFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringVar(&f.configFile, "config", "", "Path to a config file, defaults to buildgen.yaml in SOURCE_DIR")
	cmd.Flags().StringVar(&f.platform, "platform", "", "Main platform, e.g. nodejs. Detected when not set")
	cmd.Flags().StringVar(&f.platformVersion, "platform-version", "", "Version or version range of the main platform")
	cmd.Flags().VarP(&f.properties, "property", "p", "Build property in the form 'key=value', can be repeated")
	cmd.Flags().Bool("enable-multiplatform-build", false, "Detect and build every platform in the repository, not just the main one")
}

// addScriptFlags registers the flags that only matter when a build script is produced.
func addScriptFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringVarP(&f.destination, "output", "o", "", "Destination directory of the build, defaults to SOURCE_DIR")
	cmd.Flags().StringVarP(&f.intermediate, "intermediate", "i", "", "Intermediate directory for the build, defaults to SOURCE_DIR")
	cmd.Flags().StringVar(&f.manifestDir, "manifest-dir", "", "Directory to write the build manifest to, defaults to the destination directory")
	cmd.Flags().Bool("enable-dynamic-install", false, "Download platform SDKs that are not installed on the build image")
	cmd.Flags().Bool("enable-checkers", false, "Run advisory checks over the source and the selected versions")
}

// addDockerfileFlags registers the flags of the dockerfile command.
func addDockerfileFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringVar(&f.runtimePlatform, "runtime-platform", "", "Platform whose runtime image the Dockerfile targets")
	cmd.Flags().StringVar(&f.imageRules, "image-rules", "", "CSV file of base image rules, replaces the built-in table")
	cmd.Flags().Bool("enable-dynamic-install", false, "Download platform SDKs that are not installed on the build image")
}

// boolFlag returns the value of a bool flag and whether the user set it.
func boolFlag(cmd *cobra.Command, name string) (bool, bool) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return false, false
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, false
	}
	return value, true
}

// propertiesValue collects repeated key=value flags.
type propertiesValue map[string]string

var _ pflag.Value = (*propertiesValue)(nil)

func (p *propertiesValue) String() string {
	keys := make([]string, 0, len(*p))
	for k := range *p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+(*p)[k])
	}
	return "[" + strings.Join(pairs, ",") + "]"
}

func (p *propertiesValue) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("property %q must be in the form 'key=value'", s)
	}
	if *p == nil {
		*p = propertiesValue{}
	}
	(*p)[key] = value
	return nil
}

func (p *propertiesValue) Type() string {
	return "key=value"
}
