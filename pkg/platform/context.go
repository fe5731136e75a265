package platform

import (
	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/source"
)

// BuildContext carries everything the engine needs for one invocation. It is
// built once by the caller and never modified afterwards.
type BuildContext struct {
	Source source.Repo

	SourceDir       string
	DestinationDir  string
	IntermediateDir string
	// ManifestDir overrides where the manifest is written. Defaults to
	// DestinationDir.
	ManifestDir string

	PlatformName        string
	PlatformVersion     string
	RuntimePlatformName string

	EnableMultiPlatformBuild bool
	EnableDynamicInstall     bool
	EnableCheckers           bool

	DynamicInstallRoot string
	EnvSetupScript     string

	Properties  map[string]string
	OperationID string
}

func (bc *BuildContext) Validate() error {
	switch {
	case bc.SourceDir == "":
		return errors.InvalidUsage("source directory", "cannot be empty")
	case bc.IntermediateDir == "":
		return errors.InvalidUsage("intermediate directory", "cannot be empty")
	case bc.Source == nil:
		return errors.InvalidUsage("source", "repository is not open")
	case bc.PlatformVersion != "" && bc.PlatformName == "":
		return errors.InvalidUsage("platform version", "cannot be used without a platform name")
	}
	return nil
}

// Property returns the value of a user-supplied build property.
func (bc *BuildContext) Property(key string) (string, bool) {
	v, ok := bc.Properties[key]
	return v, ok
}
