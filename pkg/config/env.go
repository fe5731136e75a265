package config

import (
	"strings"

	"github.com/replicate/buildgen/pkg/util"
)

const (
	EnvEnableDynamicInstall     = "ENABLE_DYNAMIC_INSTALL"
	EnvEnableMultiPlatformBuild = "ENABLE_MULTIPLATFORM_BUILD"
	EnvEnableCheckers           = "ENABLE_CHECKERS"
	EnvDynamicInstallRoot       = "BUILDGEN_DYNAMIC_INSTALL_ROOT"
)

// DisableEnvName is the variable that switches a platform off, e.g.
// DISABLE_NODEJS_BUILD.
func DisableEnvName(platform string) string {
	return "DISABLE_" + strings.ToUpper(platform) + "_BUILD"
}

// applyEnv overrides opts with whatever the environment sets.
func applyEnv(opts *Options, knownPlatforms []string) {
	opts.EnableDynamicInstall = util.EnvBool(EnvEnableDynamicInstall, opts.EnableDynamicInstall)
	opts.EnableMultiPlatformBuild = util.EnvBool(EnvEnableMultiPlatformBuild, opts.EnableMultiPlatformBuild)
	opts.EnableCheckers = util.EnvBool(EnvEnableCheckers, opts.EnableCheckers)
	opts.DynamicInstallRoot = util.GetEnvOrDefault(EnvDynamicInstallRoot, opts.DynamicInstallRoot, util.ParseString)

	for _, name := range knownPlatforms {
		if util.EnvBool(DisableEnvName(name), false) {
			opts.DisabledPlatforms[name] = true
		}
	}
}
