package platform

import "slices"

// Base implements the bookkeeping half of Platform. Plugins embed it and add
// Detect and BuildSnippet.
type Base struct {
	PlatformName string
	Versions     []string
	Default      string
	Disabled     bool
	// SingleOnly keeps the platform out of multi-platform builds.
	SingleOnly bool
	Installer  *Installer
}

func (b *Base) Name() string {
	return b.PlatformName
}

func (b *Base) Enabled() bool {
	return !b.Disabled
}

func (b *Base) EnabledForMultiPlatformBuild() bool {
	return !b.SingleOnly
}

func (b *Base) SupportedVersions() []string {
	return slices.Clone(b.Versions)
}

func (b *Base) DefaultVersion() string {
	return b.Default
}

func (b *Base) IsVersionAlreadyInstalled(version string) bool {
	if b.Installer == nil {
		return false
	}
	return b.Installer.IsVersionInstalled(b.PlatformName, version)
}

func (b *Base) InstallSnippet(version string) (string, error) {
	if b.Installer == nil {
		return "", nil
	}
	return SDKInstallSnippet(b.PlatformName, version, b.Installer.Dir(b.PlatformName, version)), nil
}
