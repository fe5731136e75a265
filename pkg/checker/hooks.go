package checker

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/replicate/buildgen/pkg/buildenv"
	"github.com/replicate/buildgen/pkg/source"
	"github.com/replicate/buildgen/pkg/util/files"
)

// HooksChecker validates the hook scripts named in build.env.
type HooksChecker struct{}

func (HooksChecker) Name() string {
	return "hooks"
}

func (HooksChecker) CheckSourceRepo(repo source.Repo) ([]Message, error) {
	env, err := buildenv.Read(repo)
	if err != nil {
		return nil, err
	}

	var messages []Message
	for _, hook := range []struct{ key, script string }{
		{buildenv.PreBuildScriptPath, env.PreBuildScriptPath()},
		{buildenv.PostBuildScriptPath, env.PostBuildScriptPath()},
	} {
		key, script := hook.key, hook.script
		// Absolute paths point into the build container and can't be checked here.
		if script == "" || path.IsAbs(script) {
			continue
		}
		if !repo.FileExists(script) {
			messages = append(messages, Message{
				Content: fmt.Sprintf("%s refers to %q, which does not exist in the source directory", key, script),
			})
			continue
		}
		onDisk := filepath.Join(repo.RootPath(), filepath.FromSlash(script))
		if files.ExistsQuiet(onDisk) && !files.IsExecutable(onDisk) {
			messages = append(messages, Message{
				Content: fmt.Sprintf("%s refers to %q, which is not executable", key, script),
			})
		}
	}
	return messages, nil
}

func (HooksChecker) CheckToolVersions(tools map[string]string) ([]Message, error) {
	return nil, nil
}
