package cli

import (
	"github.com/cockroachdb/errors"

	"github.com/replicate/buildgen/pkg/checker"
	"github.com/replicate/buildgen/pkg/config"
	bgerrors "github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/util/console"
)

// withHint attaches an operator hint to the error kinds a user can act on.
func withHint(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case bgerrors.IsUnableToDetectPlatform(err):
		return errors.WithHint(err, "Pass --platform and --platform-version to build without detection.")
	case bgerrors.IsUnsupportedPlatform(err):
		return errors.WithHint(err, "Run `buildgen platforms` to see the supported platforms, and check whether the platform was disabled.")
	case bgerrors.IsUnsupportedVersion(err):
		return errors.WithHint(err, "Run `buildgen platforms` to see the supported versions, or pass --platform-version.")
	case bgerrors.IsDetectionParseFailure(err):
		return errors.WithHint(err, "Fix the file so it parses, or pass --platform-version to skip reading it.")
	case config.IsConfigError(err):
		return errors.WithHintf(err, "Check %s for typos and values of the wrong type.", global.ConfigFilename)
	}
	return err
}

// PrintError prints err and any hints attached to it.
func PrintError(err error) {
	console.Error(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		console.Info(hint)
	}
}

func printMessages(messages []checker.Message) {
	for _, m := range messages {
		if m.Level == checker.LevelInfo {
			console.Info(m.String())
		} else {
			console.Warn(m.String())
		}
	}
}
