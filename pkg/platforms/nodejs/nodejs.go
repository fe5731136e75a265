// Package nodejs builds Node.js applications with npm or yarn.
package nodejs

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
)

const (
	Name        = "nodejs"
	RuntimeName = "node"

	PackageJSON = "package.json"
	YarnLock    = "yarn.lock"

	CustomRunBuildCommandProperty = "custom_run_build_command"
	PruneDevDependenciesProperty  = "prune_dev_dependencies"
	RegistryProperty              = "registry"
)

var SupportedVersions = []string{
	"6.17.1",
	"8.17.0",
	"10.24.1",
	"12.16.1",
	"12.22.12",
	"14.21.3",
	"16.20.2",
	"18.19.0",
	"20.11.0",
}

const DefaultVersion = "18.19.0"

// Entry points that mark a Node.js app even without a package.json.
var entryPoints = []string{"server.js", "app.js"}

type Platform struct {
	platform.Base
}

func New(installer *platform.Installer, disabled bool) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: Name,
		Versions:     SupportedVersions,
		Default:      DefaultVersion,
		Disabled:     disabled,
		Installer:    installer,
	}}
}

func (p *Platform) RuntimeName() string {
	return RuntimeName
}

type packageJSON struct {
	Scripts map[string]string `json:"scripts"`
	Engines json.RawMessage   `json:"engines"`
}

func (p packageJSON) nodeVersion() string {
	engines := map[string]any{}
	if len(p.Engines) == 0 || json.Unmarshal(p.Engines, &engines) != nil {
		return ""
	}
	v, _ := engines["node"].(string)
	return strings.TrimSpace(v)
}

func readPackageJSON(repo source.Repo) (*packageJSON, error) {
	if !repo.FileExists(PackageJSON) {
		return nil, nil
	}
	data, err := repo.ReadFile(PackageJSON)
	if err != nil {
		return nil, err
	}
	pkg := &packageJSON{}
	if err := json.Unmarshal(data, pkg); err != nil {
		return nil, &errors.DetectionParseError{Platform: Name, File: PackageJSON, Err: err}
	}
	return pkg, nil
}

func (p *Platform) Detect(ctx context.Context, bc *platform.BuildContext) (*platform.DetectionResult, error) {
	pkg, err := readPackageJSON(bc.Source)
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		return &platform.DetectionResult{Platform: Name, Version: pkg.nodeVersion()}, nil
	}

	for _, entry := range entryPoints {
		if bc.Source.FileExists(entry) {
			return &platform.DetectionResult{Platform: Name}, nil
		}
	}
	return nil, nil
}

func (p *Platform) BuildSnippet(ctx context.Context, bc *platform.BuildContext, version string) (*platform.Snippet, error) {
	pkg, err := readPackageJSON(bc.Source)
	if err != nil {
		return nil, err
	}

	useYarn := bc.Source.FileExists(YarnLock)
	manager := "npm"
	if useYarn {
		manager = "yarn"
	}

	lines := []string{
		`echo "Using Node version: $(node --version)"`,
	}
	if registry, _ := bc.Property(RegistryProperty); registry != "" {
		lines = append(lines, "npm config set registry "+shellquote.Join(registry))
	}

	if pkg != nil {
		if useYarn {
			lines = append(lines, `echo "Running 'yarn install --prefer-offline'..."`, "yarn install --prefer-offline")
		} else {
			lines = append(lines, `echo "Running 'npm install'..."`, "npm install")
		}

		if command := buildCommand(bc, pkg, useYarn); command != "" {
			lines = append(lines, "echo "+shellquote.Join("Running '"+command+"'..."), command)
		}

		if bc.PropertyBool(PruneDevDependenciesProperty) {
			if useYarn {
				lines = append(lines, "yarn install --production --prefer-offline")
			} else {
				lines = append(lines, "npm prune --production")
			}
		}
	}

	lines = append(lines, platform.CopyToDestinationSnippet())

	return &platform.Snippet{
		Script: strings.Join(lines, "\n"),
		BuildProperties: map[string]string{
			"package_manager": manager,
		},
	}, nil
}

// buildCommand prefers a custom command, then a "build:azure" script, then the
// "build" script.
func buildCommand(bc *platform.BuildContext, pkg *packageJSON, useYarn bool) string {
	if custom, _ := bc.Property(CustomRunBuildCommandProperty); custom != "" {
		return custom
	}
	run := "npm run"
	if useYarn {
		run = "yarn run"
	}
	for _, script := range []string{"build:azure", "build"} {
		if _, ok := pkg.Scripts[script]; ok {
			return run + " " + script
		}
	}
	return ""
}
