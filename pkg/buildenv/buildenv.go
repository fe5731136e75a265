// Package buildenv reads the build.env file a source repository can carry to
// configure build hooks.
package buildenv

import (
	"bytes"
	"io"

	"github.com/subosito/gotenv"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/source"
	"github.com/replicate/buildgen/pkg/util"
)

const (
	PreBuildScriptPath  = "PRE_BUILD_SCRIPT_PATH"
	PostBuildScriptPath = "POST_BUILD_SCRIPT_PATH"
	PreBuildCommand     = "PRE_BUILD_COMMAND"
	PostBuildCommand    = "POST_BUILD_COMMAND"
)

// Env is the parsed content of a build.env file.
type Env map[string]string

func (e Env) PreBuildScriptPath() string  { return e[PreBuildScriptPath] }
func (e Env) PostBuildScriptPath() string { return e[PostBuildScriptPath] }

func Parse(r io.Reader) (Env, error) {
	env, err := gotenv.StrictParse(r)
	if err != nil {
		return nil, err
	}
	return Env(env), nil
}

// Read parses build.env at the root of repo. A missing file yields an empty Env.
func Read(repo source.Repo) (Env, error) {
	data, err := repo.ReadFile(global.BuildEnvFilename)
	if err != nil {
		if source.IsNotExist(err) {
			return Env{}, nil
		}
		return nil, err
	}

	env, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, util.WrapError(err, "failed to parse "+global.BuildEnvFilename)
	}
	return env, nil
}
