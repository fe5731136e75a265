package dockerfile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/buildgen/pkg/compat"
	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
)

type testPlatform struct {
	platform.Base

	runtime   string
	buildOnly bool
	args      map[string]string
	detected  bool
}

func (p *testPlatform) Detect(ctx context.Context, bc *platform.BuildContext) (*platform.DetectionResult, error) {
	if !p.detected {
		return nil, nil
	}
	return &platform.DetectionResult{Platform: p.Name()}, nil
}

func (p *testPlatform) BuildSnippet(ctx context.Context, bc *platform.BuildContext, version string) (*platform.Snippet, error) {
	return &platform.Snippet{}, nil
}

func (p *testPlatform) RuntimeName() string {
	if p.runtime == "" {
		return p.Name()
	}
	return p.runtime
}

func (p *testPlatform) IsBuildOnly() bool {
	return p.buildOnly
}

func (p *testPlatform) DockerfileArgs(version string) map[string]string {
	return p.args
}

func newTestPlatform(name, version string) *testPlatform {
	return &testPlatform{
		Base:     platform.Base{PlatformName: name, Versions: []string{version}, Default: version},
		detected: true,
	}
}

func newContext() *platform.BuildContext {
	return &platform.BuildContext{
		Source:          source.NewMemoryRepo("/src", nil),
		SourceDir:       "/src",
		IntermediateDir: "/tmp/int",
	}
}

func newGenerator(t *testing.T, platforms ...platform.Platform) *Generator {
	t.Helper()
	rules, err := DefaultRules()
	require.NoError(t, err)
	return NewGenerator(compat.NewResolver(platforms), rules)
}

func TestBuildTagAndRuntime(t *testing.T) {
	runtimeNames := map[string]string{"dotnet": "dotnetcore", "nodejs": "node"}

	for _, tt := range []struct {
		platform string
		version  string
		tag      string
	}{
		{"dotnet", "2.0", "latest"},
		{"dotnet", "2.1", "slim"},
		{"dotnet", "3.0", "latest"},
		{"nodejs", "6", "latest"},
		{"nodejs", "8", "slim"},
		{"nodejs", "10", "slim"},
		{"nodejs", "12", "slim"},
		{"php", "5.6", "latest"},
		{"php", "7.3", "latest"},
		{"python", "2.7", "latest"},
		{"python", "3.7", "slim"},
		{"python", "3.8", "slim"},
	} {
		t.Run(tt.platform+"-"+tt.version, func(t *testing.T) {
			p := newTestPlatform(tt.platform, tt.version)
			runtime, ok := runtimeNames[tt.platform]
			if !ok {
				runtime = tt.platform
			}
			p.runtime = runtime

			bc := newContext()
			bc.PlatformName = tt.platform
			bc.PlatformVersion = tt.version

			dockerfile, err := newGenerator(t, p).GenerateDockerfile(context.Background(), bc)
			require.NoError(t, err)
			require.Contains(t, dockerfile, fmt.Sprintf("FROM buildgen/build:%s AS build\n", tt.tag))
			require.Contains(t, dockerfile, fmt.Sprintf("ARG RUNTIME=%s:%s\n", runtime, tt.version))
		})
	}
}

func TestNodeRuntimeNameFromRules(t *testing.T) {
	p := newTestPlatform("nodejs", "12")
	dockerfile, err := newGenerator(t, p).GenerateDockerfile(context.Background(), newContext())
	require.NoError(t, err)
	require.Equal(t, `ARG RUNTIME=node:12

FROM buildgen/build:slim AS build
WORKDIR /app
COPY . .
RUN buildgen build-script /app --output /app/output --platform nodejs --platform-version 12 > /tmp/build.sh && bash /tmp/build.sh

FROM buildgen/${RUNTIME}
COPY --from=build /app/output /app
ENTRYPOINT ["/app/run.sh"]
`, dockerfile)
}

func TestBuildCommandForwardsProperties(t *testing.T) {
	p := newTestPlatform("python", "3.8")
	bc := newContext()
	bc.Properties = map[string]string{
		"virtualenv_name": "my env",
		"packagedir":      "pkgs",
		"nodejs_version":  "12",
	}

	dockerfile, err := newGenerator(t, p).GenerateDockerfile(context.Background(), bc)
	require.NoError(t, err)
	require.Contains(t, dockerfile, "RUN buildgen build-script /app --output /app/output --platform python --platform-version 3.8 -p packagedir=pkgs -p 'virtualenv_name=my env' > /tmp/build.sh")
}

func TestMultiPlatformTags(t *testing.T) {
	for _, tt := range []struct {
		name      string
		versions  [2]string
		tag       string
		runtimeVs string
	}{
		{"all slim", [2]string{"12", "3.8"}, "slim", "python:3.8"},
		{"mixed", [2]string{"12", "2.7"}, "latest", "python:2.7"},
		{"all latest", [2]string{"6", "2.7"}, "latest", "python:2.7"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			node := newTestPlatform("nodejs", tt.versions[0])
			python := newTestPlatform("python", tt.versions[1])

			bc := newContext()
			bc.EnableMultiPlatformBuild = true

			dockerfile, err := newGenerator(t, node, python).GenerateDockerfile(context.Background(), bc)
			require.NoError(t, err)
			require.Contains(t, dockerfile, "FROM buildgen/build:"+tt.tag+" AS build")
			require.Contains(t, dockerfile, "ARG RUNTIME="+tt.runtimeVs+"\n")
			require.Contains(t, dockerfile, "--enable-multiplatform-build -p python_version="+tt.versions[1])
		})
	}
}

func TestRuntimeSkipsBuildOnlyPlatforms(t *testing.T) {
	python := newTestPlatform("python", "3.8")
	node := newTestPlatform("nodejs", "12")
	node.buildOnly = true

	bc := newContext()
	bc.EnableMultiPlatformBuild = true

	dockerfile, err := newGenerator(t, python, node).GenerateDockerfile(context.Background(), bc)
	require.NoError(t, err)
	require.Contains(t, dockerfile, "ARG RUNTIME=python:3.8\n")
}

func TestExplicitRuntimePlatform(t *testing.T) {
	node := newTestPlatform("nodejs", "12")
	python := newTestPlatform("python", "3.8")
	python.args = map[string]string{"PYTHON_VERSION": "3.8", "DEBIAN_FLAVOR": "bullseye"}

	bc := newContext()
	bc.EnableMultiPlatformBuild = true
	bc.RuntimePlatformName = "nodejs"

	dockerfile, err := newGenerator(t, node, python).GenerateDockerfile(context.Background(), bc)
	require.NoError(t, err)
	require.Contains(t, dockerfile, "ARG RUNTIME=node:12\nARG DEBIAN_FLAVOR=bullseye\nARG PYTHON_VERSION=3.8\n")

	bc.RuntimePlatformName = "php"
	_, err = newGenerator(t, node, python).GenerateDockerfile(context.Background(), bc)
	require.True(t, errors.IsUnsupportedPlatform(err))
	require.EqualError(t, err, "'php' platform is not supported. Supported platforms are: nodejs, python")
}

func TestResolutionFailureReturnsNothing(t *testing.T) {
	bc := newContext()
	bc.PlatformName = "nodejs"

	dockerfile, err := newGenerator(t).GenerateDockerfile(context.Background(), bc)
	require.True(t, errors.IsUnsupportedPlatform(err))
	require.Empty(t, dockerfile)
}
