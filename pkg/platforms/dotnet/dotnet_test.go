package dotnet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
)

func csproj(targetFramework string) string {
	return `<Project Sdk="Microsoft.NET.Sdk.Web">
  <PropertyGroup>
    <TargetFramework>` + targetFramework + `</TargetFramework>
  </PropertyGroup>
</Project>`
}

func newContext(files map[string]string, properties map[string]string) *platform.BuildContext {
	return &platform.BuildContext{
		Source:          source.NewMemoryRepo("/src", files),
		SourceDir:       "/src",
		IntermediateDir: "/tmp/int",
		Properties:      properties,
	}
}

func TestVersions(t *testing.T) {
	require.Equal(t, []string{"2.1", "2.2", "3.0", "3.1", "5.0", "6.0", "7.0", "8.0"}, New(nil, false).SupportedVersions())
}

func TestNormalizeVersion(t *testing.T) {
	p := New(nil, false)
	require.Equal(t, "2.2", p.NormalizeVersion("netcoreapp2.2"))
	require.Equal(t, "3.1", p.NormalizeVersion("NetCoreApp3.1"))
	require.Equal(t, "8.0", p.NormalizeVersion("net8.0"))
	require.Equal(t, "6.0", p.NormalizeVersion("6.0"))
	require.Equal(t, "netstandard2.0", p.NormalizeVersion("netstandard2.0"))
}

func TestDetect(t *testing.T) {
	p := New(nil, false)

	for _, tt := range []struct {
		name     string
		files    map[string]string
		props    map[string]string
		detected bool
		version  string
	}{
		{"netcoreapp", map[string]string{"app.csproj": csproj("netcoreapp2.2")}, nil, true, "2.2"},
		{"net", map[string]string{"app.csproj": csproj("net8.0")}, nil, true, "8.0"},
		{"netstandard", map[string]string{"lib.csproj": csproj("netstandard2.0")}, nil, true, ""},
		{
			"target frameworks",
			map[string]string{"app.csproj": `<Project><PropertyGroup><TargetFrameworks>net6.0;net7.0</TargetFrameworks></PropertyGroup></Project>`},
			nil, true, "6.0",
		},
		{"no target framework", map[string]string{"app.csproj": `<Project><PropertyGroup/></Project>`}, nil, false, ""},
		{"no project", map[string]string{"package.json": "{}"}, nil, false, ""},
		{"nested project ignored", map[string]string{"src/app.csproj": csproj("net8.0")}, nil, false, ""},
		{
			"project property",
			map[string]string{"src/api/api.csproj": csproj("netcoreapp3.1"), "web.csproj": csproj("net8.0"), "lib.csproj": csproj("net8.0")},
			map[string]string{ProjectProperty: "src/api/api.csproj"},
			true, "3.1",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Detect(context.Background(), newContext(tt.files, tt.props))
			require.NoError(t, err)
			if !tt.detected {
				require.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			require.Equal(t, tt.version, result.Version)
		})
	}
}

func TestDetectErrors(t *testing.T) {
	p := New(nil, false)

	_, err := p.Detect(context.Background(), newContext(map[string]string{"app.csproj": "<Project><PropertyGroup>"}, nil))
	require.True(t, errors.IsDetectionParseFailure(err))

	_, err = p.Detect(context.Background(), newContext(map[string]string{
		"a.csproj": csproj("net8.0"),
		"b.csproj": csproj("net8.0"),
	}, nil))
	require.True(t, errors.IsInvalidUsage(err))
	require.ErrorContains(t, err, "a.csproj, b.csproj")

	_, err = p.Detect(context.Background(), newContext(nil, map[string]string{ProjectProperty: "missing.csproj"}))
	require.True(t, errors.IsInvalidUsage(err))
}

func TestInstallSnippet(t *testing.T) {
	root := t.TempDir()
	p := New(&platform.Installer{Root: root}, false)

	snippet, err := p.InstallSnippet("3.1")
	require.NoError(t, err)
	require.Contains(t, snippet, "mkdir -p "+filepath.Join(root, "dotnet", "sdks", "3.1.426"))
	require.Contains(t, snippet, "echo 3.1.426 > "+filepath.Join(root, "dotnet", "3.1", "sdkVersion.txt"))

	_, err = p.InstallSnippet("1.0")
	require.Error(t, err)

	require.False(t, p.IsVersionAlreadyInstalled("3.1"))
	sentinel := platform.SentinelPath(root, Name, "3.1")
	require.NoError(t, os.MkdirAll(filepath.Dir(sentinel), 0o755))
	require.NoError(t, os.WriteFile(sentinel, nil, 0o644))
	require.True(t, p.IsVersionAlreadyInstalled("3.1"))
}

func TestBuildSnippet(t *testing.T) {
	bc := newContext(map[string]string{"app.csproj": csproj("net8.0")}, nil)
	p := New(nil, false)

	snippet, err := p.BuildSnippet(context.Background(), bc, "8.0")
	require.NoError(t, err)
	require.Contains(t, snippet.Script, "dotnet restore app.csproj\n")
	require.Contains(t, snippet.Script, `dotnet publish app.csproj -c Release -o "$DESTINATION_DIR"`)
	require.Equal(t, map[string]string{"project_file": "app.csproj", "dotnet_sdk_version": "8.0.101"}, snippet.BuildProperties)
	require.Equal(t, map[string]string{"DOTNET_SDK_VERSION": "8.0.101"}, p.DockerfileArgs("8.0"))
	require.Equal(t, "dotnetcore", platform.RuntimeName(p))
}
