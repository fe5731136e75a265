// Package config loads buildgen.yaml and the environment into Options.
package config

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/replicate/buildgen/pkg/global"
)

// Options is the completed configuration. Zero values mean "use the default".
type Options struct {
	Platform        string
	PlatformVersion string
	RuntimePlatform string

	EnableMultiPlatformBuild bool
	EnableDynamicInstall     bool
	EnableCheckers           bool

	DynamicInstallRoot string
	BuiltInRoot        string
	ManifestDir        string

	ImageRules   string
	BuildImage   string
	RuntimeImage string

	DisabledPlatforms map[string]bool
	Properties        map[string]string
}

// Complete validates cfg and merges it with environment overrides. filename is
// the path cfg was read from; relative paths in the file are resolved against
// its directory. knownPlatforms is the registry's platform names.
func Complete(cfg *ConfigFile, filename string, knownPlatforms []string) (*Options, error) {
	if cfg == nil {
		cfg = &ConfigFile{}
	}
	if err := validate(cfg, knownPlatforms); err != nil {
		return nil, err
	}

	opts := &Options{
		Platform:                 deref(cfg.Platform),
		PlatformVersion:          deref(cfg.PlatformVersion),
		RuntimePlatform:          deref(cfg.RuntimePlatform),
		EnableMultiPlatformBuild: deref(cfg.EnableMultiPlatformBuild),
		EnableDynamicInstall:     deref(cfg.EnableDynamicInstall),
		EnableCheckers:           deref(cfg.EnableCheckers),
		DynamicInstallRoot:       deref(cfg.DynamicInstallRoot),
		BuiltInRoot:              deref(cfg.BuiltInRoot),
		ManifestDir:              deref(cfg.ManifestDir),
		ImageRules:               deref(cfg.ImageRules),
		BuildImage:               deref(cfg.BuildImage),
		RuntimeImage:             deref(cfg.RuntimeImage),
		DisabledPlatforms:        map[string]bool{},
		Properties:               map[string]string{},
	}
	for _, name := range cfg.DisabledPlatforms {
		opts.DisabledPlatforms[strings.ToLower(name)] = true
	}
	for k, v := range cfg.Properties {
		opts.Properties[k] = v
	}
	if opts.ImageRules != "" && filename != "" && !filepath.IsAbs(opts.ImageRules) {
		opts.ImageRules = filepath.Join(filepath.Dir(filename), opts.ImageRules)
	}

	applyEnv(opts, knownPlatforms)

	if opts.DynamicInstallRoot == "" {
		opts.DynamicInstallRoot = global.DefaultInstallRoot
	}
	if opts.BuiltInRoot == "" {
		opts.BuiltInRoot = global.DefaultBuiltInRoot
	}
	if opts.BuildImage == "" {
		opts.BuildImage = global.DefaultBuildImage
	}
	if opts.RuntimeImage == "" {
		opts.RuntimeImage = global.DefaultRuntimeImage
	}
	return opts, nil
}

// DisabledNames returns the disabled platform names in sorted order.
func (o *Options) DisabledNames() []string {
	names := make([]string, 0, len(o.DisabledPlatforms))
	for name, disabled := range o.DisabledPlatforms {
		if disabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func validate(cfg *ConfigFile, knownPlatforms []string) error {
	if cfg.PlatformVersion != nil && strings.TrimSpace(*cfg.PlatformVersion) != "" &&
		strings.TrimSpace(deref(cfg.Platform)) == "" {
		return &ValidationError{
			Field:   "platform_version",
			Value:   *cfg.PlatformVersion,
			Message: "platform must be set when platform_version is set",
		}
	}
	for _, name := range cfg.DisabledPlatforms {
		if !slices.Contains(knownPlatforms, strings.ToLower(name)) {
			return &ValidationError{
				Field:   "disabled_platforms",
				Value:   name,
				Message: "not a known platform, expected one of " + strings.Join(knownPlatforms, ", "),
			}
		}
	}
	for key := range cfg.Properties {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Field: "properties", Message: "keys cannot be empty"}
		}
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
