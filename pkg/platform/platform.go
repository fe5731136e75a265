// Package platform defines the contract every language platform plugin
// implements, along with the per-invocation BuildContext and the result types
// shared by the resolver and the assemblers.
package platform

import (
	"context"
	"strings"
)

// Platform is a language toolchain buildgen knows how to detect, install and
// build with.
type Platform interface {
	// Name is the stable identifier, e.g. "nodejs".
	Name() string

	// Enabled is false when the platform has been switched off by configuration.
	Enabled() bool

	// EnabledForMultiPlatformBuild reports whether the platform may be added as a
	// secondary platform.
	EnabledForMultiPlatformBuild() bool

	// Detect inspects the source. A nil result means the platform does not apply.
	Detect(ctx context.Context, bc *BuildContext) (*DetectionResult, error)

	SupportedVersions() []string
	DefaultVersion() string

	IsVersionAlreadyInstalled(version string) bool

	// InstallSnippet returns bash that installs version, or "" when nothing needs
	// installing.
	InstallSnippet(version string) (string, error)

	// BuildSnippet returns bash that builds the source with version.
	BuildSnippet(ctx context.Context, bc *BuildContext, version string) (*Snippet, error)
}

// VersionNormalizer strips platform-specific decoration from detected or
// requested versions, e.g. "netcoreapp2.2" to "2.2".
type VersionNormalizer interface {
	NormalizeVersion(version string) string
}

// RuntimeNamer names the runtime image used for the platform when it differs
// from Name.
type RuntimeNamer interface {
	RuntimeName() string
}

// BuildOnly is implemented by platforms that are needed to build the app but
// not to run it.
type BuildOnly interface {
	IsBuildOnly() bool
}

// DockerfileArgs adds extra ARG lines to a generated Dockerfile.
type DockerfileArgs interface {
	DockerfileArgs(version string) map[string]string
}

type DetectionResult struct {
	Platform string
	Version  string
}

// Resolved is a platform paired with the concrete version it will be built with.
type Resolved struct {
	Platform  Platform
	Version   string
	Detection *DetectionResult
}

func (r Resolved) Name() string {
	return r.Platform.Name()
}

type Snippet struct {
	Script string
	// BuildProperties end up in the build manifest.
	BuildProperties map[string]string
}

// Normalize applies p's VersionNormalizer if it has one.
func Normalize(p Platform, version string) string {
	version = strings.TrimSpace(version)
	if n, ok := p.(VersionNormalizer); ok && version != "" {
		return n.NormalizeVersion(version)
	}
	return version
}

// RuntimeName returns the runtime image name for p.
func RuntimeName(p Platform) string {
	if n, ok := p.(RuntimeNamer); ok {
		return n.RuntimeName()
	}
	return p.Name()
}

func IsBuildOnly(p Platform) bool {
	b, ok := p.(BuildOnly)
	return ok && b.IsBuildOnly()
}

// VersionProperty is the property key that pins the version of a platform, e.g.
// "python_version".
func VersionProperty(name string) string {
	return strings.ToLower(name) + "_version"
}
