// Package dotnet builds .NET projects with the SDK matching their target
// runtime.
package dotnet

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/version"
)

const (
	Name        = "dotnet"
	RuntimeName = "dotnetcore"

	ProjectProperty    = "project"
	SDKVersionFile     = "sdkVersion.txt"
	SDKVersionArg      = "DOTNET_SDK_VERSION"
	projectFilePattern = "*.csproj"
)

// SDKVersions maps each supported runtime version to the SDK that builds it.
var SDKVersions = map[string]string{
	"2.1": "2.1.818",
	"2.2": "2.2.402",
	"3.0": "3.0.103",
	"3.1": "3.1.426",
	"5.0": "5.0.408",
	"6.0": "6.0.418",
	"7.0": "7.0.405",
	"8.0": "8.0.101",
}

const DefaultVersion = "8.0"

var monikerPattern = regexp.MustCompile(`(?i)^net(?:coreapp)?(\d+\.\d+)$`)

type Platform struct {
	platform.Base
}

func New(installer *platform.Installer, disabled bool) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: Name,
		Versions:     Versions(),
		Default:      DefaultVersion,
		Disabled:     disabled,
		Installer:    installer,
	}}
}

func (p *Platform) RuntimeName() string {
	return RuntimeName
}

// NormalizeVersion turns a target framework moniker such as "netcoreapp2.2" or
// "net8.0" into its runtime version.
func (p *Platform) NormalizeVersion(v string) string {
	if m := monikerPattern.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
		return m[1]
	}
	return v
}

func (p *Platform) DockerfileArgs(v string) map[string]string {
	sdk, ok := SDKVersions[v]
	if !ok {
		return nil
	}
	return map[string]string{SDKVersionArg: sdk}
}

type project struct {
	PropertyGroups []struct {
		TargetFramework  string `xml:"TargetFramework"`
		TargetFrameworks string `xml:"TargetFrameworks"`
	} `xml:"PropertyGroup"`
}

// targetFramework is the first TargetFramework, falling back to the first entry
// of TargetFrameworks.
func (p project) targetFramework() string {
	for _, group := range p.PropertyGroups {
		if tf := strings.TrimSpace(group.TargetFramework); tf != "" {
			return tf
		}
	}
	for _, group := range p.PropertyGroups {
		if tfs := strings.TrimSpace(group.TargetFrameworks); tfs != "" {
			return strings.TrimSpace(strings.Split(tfs, ";")[0])
		}
	}
	return ""
}

// projectFile finds the project to build: the "project" property, or the only
// *.csproj at the root.
func projectFile(bc *platform.BuildContext) (string, error) {
	if name, _ := bc.Property(ProjectProperty); name != "" {
		if !bc.Source.FileExists(name) {
			return "", errors.InvalidUsage(ProjectProperty, "%s does not exist in the source directory", name)
		}
		return name, nil
	}

	matches, err := bc.Source.Glob(projectFilePattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	}
	return "", errors.InvalidUsage(ProjectProperty, "found multiple project files (%s), choose one with -p %s=<file>",
		strings.Join(matches, ", "), ProjectProperty)
}

func readProject(repo source.Repo, name string) (*project, error) {
	data, err := repo.ReadFile(name)
	if err != nil {
		return nil, err
	}
	proj := &project{}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(proj); err != nil {
		return nil, &errors.DetectionParseError{Platform: Name, File: name, Err: err}
	}
	return proj, nil
}

func (p *Platform) Detect(ctx context.Context, bc *platform.BuildContext) (*platform.DetectionResult, error) {
	name, err := projectFile(bc)
	if err != nil || name == "" {
		return nil, err
	}

	proj, err := readProject(bc.Source, name)
	if err != nil {
		return nil, err
	}

	tf := proj.targetFramework()
	if tf == "" {
		console.Debugf("Could not find a TargetFramework element in %s", name)
		return nil, nil
	}

	// Monikers that don't name a runtime, e.g. netstandard2.0, leave the version
	// to the default.
	result := &platform.DetectionResult{Platform: Name}
	if monikerPattern.MatchString(tf) {
		result.Version = p.NormalizeVersion(tf)
	}
	return result, nil
}

func (p *Platform) InstallSnippet(v string) (string, error) {
	if p.Installer == nil {
		return "", nil
	}
	sdk, ok := SDKVersions[v]
	if !ok {
		return "", fmt.Errorf("no SDK known for .NET runtime %s", v)
	}

	sdkDir := filepath.Join(p.Installer.Root, Name, "sdks", sdk)
	runtimeDir := p.Installer.Dir(Name, v)
	return strings.Join([]string{
		platform.SDKInstallSnippet(Name, sdk, sdkDir),
		"mkdir -p " + shellquote.Join(runtimeDir),
		fmt.Sprintf("echo %s > %s", shellquote.Join(sdk), shellquote.Join(filepath.Join(runtimeDir, SDKVersionFile))),
	}, "\n"), nil
}

func (p *Platform) BuildSnippet(ctx context.Context, bc *platform.BuildContext, v string) (*platform.Snippet, error) {
	name, err := projectFile(bc)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.InvalidUsage(ProjectProperty, "no %s file found in the source directory", projectFilePattern)
	}

	q := shellquote.Join(name)
	lines := []string{
		`echo "Using .NET Core SDK Version: $(dotnet --version)"`,
		"echo " + shellquote.Join("Restoring "+name+"..."),
		"dotnet restore " + q,
		`echo "Publishing to $DESTINATION_DIR..."`,
		`dotnet publish ` + q + ` -c Release -o "$DESTINATION_DIR"`,
	}

	properties := map[string]string{"project_file": name}
	if sdk, ok := SDKVersions[v]; ok {
		properties["dotnet_sdk_version"] = sdk
	}
	return &platform.Snippet{Script: strings.Join(lines, "\n"), BuildProperties: properties}, nil
}

// Versions returns the supported runtime versions.
func Versions() []string {
	versions := make([]string, 0, len(SDKVersions))
	for v := range SDKVersions {
		versions = append(versions, v)
	}
	slices.SortFunc(versions, version.Compare)
	return versions
}
