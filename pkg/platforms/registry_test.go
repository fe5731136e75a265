package platforms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/buildgen/pkg/buildscript"
	"github.com/replicate/buildgen/pkg/compat"
	"github.com/replicate/buildgen/pkg/dockerfile"
	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
)

func newContext(files map[string]string) *platform.BuildContext {
	return &platform.BuildContext{
		Source:          source.NewMemoryRepo("/src", files),
		SourceDir:       "/src",
		DestinationDir:  "/out",
		IntermediateDir: "/tmp/int",
		OperationID:     "op",
	}
}

var nodePythonRepo = map[string]string{
	"package.json":     `{"engines": {"node": "12.x"}, "scripts": {"build": "webpack"}}`,
	"requirements.txt": "flask",
	"runtime.txt":      "python-3.8",
}

func TestDefaultOrder(t *testing.T) {
	registry := Default(Options{})
	var names []string
	for _, p := range registry {
		names = append(names, p.Name())
	}
	require.Equal(t, Names, names)
	require.Equal(t, Names, compat.NewResolver(registry).EnabledNames())
}

func TestDisabled(t *testing.T) {
	r := compat.NewResolver(Default(Options{Disabled: map[string]bool{"nodejs": true}}))
	require.Equal(t, []string{"dotnet", "python", "php"}, r.EnabledNames())

	resolved, err := r.Resolve(context.Background(), newContext(nodePythonRepo))
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, "python", resolved[0].Name())
	require.Equal(t, "3.8.18", resolved[0].Version)

	bc := newContext(nodePythonRepo)
	bc.PlatformName = "nodejs"
	_, err = r.Resolve(context.Background(), bc)
	require.EqualError(t, err, "'nodejs' platform is not supported. Supported platforms are: dotnet, python, php")
}

func TestNodeAndPython(t *testing.T) {
	g := buildscript.NewGenerator(compat.NewResolver(Default(Options{InstallRoot: t.TempDir(), BuiltInRoot: t.TempDir()})), nil)

	script, err := g.GenerateBashScript(context.Background(), newContext(nodePythonRepo), nil)
	require.NoError(t, err)
	require.Contains(t, script, "npm run build")
	require.NotContains(t, script, "pip install")

	bc := newContext(nodePythonRepo)
	bc.EnableMultiPlatformBuild = true
	bc.EnableDynamicInstall = true
	script, err = g.GenerateBashScript(context.Background(), bc, nil)
	require.NoError(t, err)
	require.Contains(t, script, "npm run build")
	require.Contains(t, script, "pip install --prefer-binary -r requirements.txt")
	require.Contains(t, script, "tar -xzf nodejs-12.22.12.tar.gz -C .")
	require.Contains(t, script, "source /opt/buildgen/benv nodejs=12.22.12 python=3.8.18")
	require.Contains(t, script, `platforms="nodejs,python"`)
}

func TestPHPNotAddedToMultiPlatformBuild(t *testing.T) {
	r := compat.NewResolver(Default(Options{}))

	bc := newContext(map[string]string{
		"package.json":  "{}",
		"composer.json": `{"require": {"php": "7.3.*"}}`,
	})
	bc.EnableMultiPlatformBuild = true
	resolved, err := r.Resolve(context.Background(), bc)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, "nodejs", resolved[0].Name())

	bc.PlatformName = "php"
	resolved, err = r.Resolve(context.Background(), bc)
	require.NoError(t, err)
	require.Equal(t, "7.3.33", resolved[0].Version)
	require.Len(t, resolved, 2)
}

func TestDockerfileForDotnet(t *testing.T) {
	rules, err := dockerfile.DefaultRules()
	require.NoError(t, err)
	g := dockerfile.NewGenerator(compat.NewResolver(Default(Options{})), rules)

	bc := newContext(map[string]string{
		"app.csproj": `<Project><PropertyGroup><TargetFramework>netcoreapp2.1</TargetFramework></PropertyGroup></Project>`,
	})
	out, err := g.GenerateDockerfile(context.Background(), bc)
	require.NoError(t, err)
	require.Contains(t, out, "ARG RUNTIME=dotnetcore:2.1\nARG DOTNET_SDK_VERSION=2.1.818\n")
	require.Contains(t, out, "FROM buildgen/build:slim AS build\n")
}

func TestUnsupportedDetectedVersion(t *testing.T) {
	r := compat.NewResolver(Default(Options{}))

	_, err := r.Resolve(context.Background(), newContext(map[string]string{
		"package.json": `{"engines": {"node": ">=22"}}`,
	}))
	var verr *errors.UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ">=22", verr.Requested)
	require.Equal(t, "nodejs", verr.Platform)
}
