package config

// ConfigFile represents the raw buildgen.yaml as written by users.
// All fields are pointers/omitempty to distinguish "not set" from "set to zero value".
// It is only used during parsing; Complete turns it into Options.
type ConfigFile struct {
	Platform                 *string           `json:"platform,omitempty" yaml:"platform,omitempty"`
	PlatformVersion          *string           `json:"platform_version,omitempty" yaml:"platform_version,omitempty"`
	RuntimePlatform          *string           `json:"runtime_platform,omitempty" yaml:"runtime_platform,omitempty"`
	EnableMultiPlatformBuild *bool             `json:"enable_multiplatform_build,omitempty" yaml:"enable_multiplatform_build,omitempty"`
	EnableDynamicInstall     *bool             `json:"enable_dynamic_install,omitempty" yaml:"enable_dynamic_install,omitempty"`
	EnableCheckers           *bool             `json:"enable_checkers,omitempty" yaml:"enable_checkers,omitempty"`
	DynamicInstallRoot       *string           `json:"dynamic_install_root,omitempty" yaml:"dynamic_install_root,omitempty"`
	BuiltInRoot              *string           `json:"builtin_root,omitempty" yaml:"builtin_root,omitempty"`
	ManifestDir              *string           `json:"manifest_dir,omitempty" yaml:"manifest_dir,omitempty"`
	ImageRules               *string           `json:"image_rules,omitempty" yaml:"image_rules,omitempty"`
	BuildImage               *string           `json:"build_image,omitempty" yaml:"build_image,omitempty"`
	RuntimeImage             *string           `json:"runtime_image,omitempty" yaml:"runtime_image,omitempty"`
	DisabledPlatforms        []string          `json:"disabled_platforms,omitempty" yaml:"disabled_platforms,omitempty"`
	Properties               map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}
