package cli

import (
	"maps"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/replicate/buildgen/pkg/compat"
	"github.com/replicate/buildgen/pkg/config"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/platforms"
	"github.com/replicate/buildgen/pkg/source"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/util/files"
)

// session is one command invocation against a source directory: the completed
// options, the open repository and the context handed to the engine.
type session struct {
	opts     *config.Options
	repo     *source.LocalRepo
	resolver *compat.Resolver
	bc       *platform.BuildContext
}

// openSession loads config for sourceDir, lets flags override it and opens the
// repository. Callers must Close the session.
func openSession(cmd *cobra.Command, sourceDir string, f *buildFlags) (*session, error) {
	dir, err := files.ExpandPath(sourceDir)
	if err != nil {
		return nil, err
	}
	isDir, err := files.IsDir(dir)
	if err != nil || !isDir {
		return nil, errors.WithHint(
			errors.Newf("source directory %s does not exist or is not a directory", sourceDir),
			"Pass the path of the repository to build as the first argument.",
		)
	}

	configFile, err := files.ExpandPath(f.configFile)
	if err != nil {
		return nil, err
	}
	opts, err := loadOptions(dir, configFile)
	if err != nil {
		return nil, withHint(err)
	}
	applyFlags(cmd, f, opts)

	repo, err := source.NewLocalRepo(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dir)
	}

	resolver := compat.NewResolver(platforms.Default(platforms.Options{
		InstallRoot: opts.DynamicInstallRoot,
		BuiltInRoot: opts.BuiltInRoot,
		Disabled:    opts.DisabledPlatforms,
	}))

	bc := &platform.BuildContext{
		Source:                   repo,
		SourceDir:                dir,
		DestinationDir:           orDefault(f.destination, dir),
		IntermediateDir:          orDefault(f.intermediate, dir),
		ManifestDir:              opts.ManifestDir,
		PlatformName:             opts.Platform,
		PlatformVersion:          opts.PlatformVersion,
		RuntimePlatformName:      opts.RuntimePlatform,
		EnableMultiPlatformBuild: opts.EnableMultiPlatformBuild,
		EnableDynamicInstall:     opts.EnableDynamicInstall,
		EnableCheckers:           opts.EnableCheckers,
		DynamicInstallRoot:       opts.DynamicInstallRoot,
		Properties:               opts.Properties,
	}
	console.Debugf("Source %s, destination %s, intermediate %s", bc.SourceDir, bc.DestinationDir, bc.IntermediateDir)
	if disabled := opts.DisabledNames(); len(disabled) > 0 {
		console.Debugf("Disabled platforms: %s", strings.Join(disabled, ", "))
	}

	return &session{opts: opts, repo: repo, resolver: resolver, bc: bc}, nil
}

func (s *session) Close() error {
	return s.repo.Close()
}

// loadOptions reads buildgen.yaml (or configFile) and completes it with the
// environment.
func loadOptions(dir, configFile string) (*config.Options, error) {
	cfg, path, err := config.Load(dir, configFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		console.Debugf("Using config file %s", path)
	}
	return config.Complete(cfg, path, platforms.Names)
}

// applyFlags overrides opts with whatever the user passed on the command line.
func applyFlags(cmd *cobra.Command, f *buildFlags, opts *config.Options) {
	opts.Platform = orDefault(f.platform, opts.Platform)
	opts.PlatformVersion = orDefault(f.platformVersion, opts.PlatformVersion)
	opts.RuntimePlatform = orDefault(f.runtimePlatform, opts.RuntimePlatform)
	opts.ManifestDir = orDefault(f.manifestDir, opts.ManifestDir)
	opts.ImageRules = orDefault(f.imageRules, opts.ImageRules)

	if v, ok := boolFlag(cmd, "enable-multiplatform-build"); ok {
		opts.EnableMultiPlatformBuild = v
	}
	if v, ok := boolFlag(cmd, "enable-dynamic-install"); ok {
		opts.EnableDynamicInstall = v
	}
	if v, ok := boolFlag(cmd, "enable-checkers"); ok {
		opts.EnableCheckers = v
	}

	if opts.Properties == nil {
		opts.Properties = map[string]string{}
	}
	maps.Copy(opts.Properties, f.properties)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
