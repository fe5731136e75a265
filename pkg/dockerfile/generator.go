// Package dockerfile renders a two-stage Dockerfile that builds the source with
// buildgen in a build image and copies the output into a runtime image.
package dockerfile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/replicate/buildgen/pkg/compat"
	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/platform"
)

const (
	appDir    = "/app"
	outputDir = "/app/output"
)

type Generator struct {
	Resolver *compat.Resolver
	Rules    *Rules

	BuildImage   string
	RuntimeImage string
}

func NewGenerator(resolver *compat.Resolver, rules *Rules) *Generator {
	return &Generator{
		Resolver:     resolver,
		Rules:        rules,
		BuildImage:   global.DefaultBuildImage,
		RuntimeImage: global.DefaultRuntimeImage,
	}
}

func (g *Generator) GenerateDockerfile(ctx context.Context, bc *platform.BuildContext) (string, error) {
	resolved, err := g.Resolver.Resolve(ctx, bc)
	if err != nil {
		return "", err
	}

	runtime, err := runtimePlatform(bc, resolved)
	if err != nil {
		return "", err
	}

	args := []string{
		fmt.Sprintf("ARG RUNTIME=%s:%s", g.runtimeName(runtime), runtime.Version),
	}
	args = append(args, platformArgs(resolved)...)

	buildStage := []string{
		fmt.Sprintf("FROM %s:%s AS build", g.BuildImage, g.buildTag(resolved)),
		"WORKDIR " + appDir,
		"COPY . .",
		"RUN " + buildCommand(bc, resolved),
	}

	runtimeStage := []string{
		fmt.Sprintf("FROM %s/${RUNTIME}", g.RuntimeImage),
		fmt.Sprintf("COPY --from=build %s %s", outputDir, appDir),
		fmt.Sprintf(`ENTRYPOINT ["%s/run.sh"]`, appDir),
	}

	return strings.Join(filterEmpty([]string{
		strings.Join(args, "\n"),
		strings.Join(buildStage, "\n"),
		strings.Join(runtimeStage, "\n"),
	}), "\n\n") + "\n", nil
}

// runtimePlatform is the explicitly designated runtime platform, or the last
// resolved platform that is needed at run time.
func runtimePlatform(bc *platform.BuildContext, resolved []platform.Resolved) (platform.Resolved, error) {
	if bc.RuntimePlatformName != "" {
		for _, r := range resolved {
			if strings.EqualFold(r.Name(), bc.RuntimePlatformName) {
				return r, nil
			}
		}
		names := make([]string, 0, len(resolved))
		for _, r := range resolved {
			names = append(names, r.Name())
		}
		return platform.Resolved{}, &errors.UnsupportedPlatformError{
			Requested: bc.RuntimePlatformName,
			Supported: names,
		}
	}

	for i := len(resolved) - 1; i >= 0; i-- {
		if !platform.IsBuildOnly(resolved[i].Platform) {
			return resolved[i], nil
		}
	}
	return resolved[len(resolved)-1], nil
}

func (g *Generator) runtimeName(r platform.Resolved) string {
	if g.Rules != nil {
		if rule := g.Rules.Match(r.Name(), r.Version); rule != nil && rule.Runtime != "" {
			return rule.Runtime
		}
	}
	return platform.RuntimeName(r.Platform)
}

// buildTag is the tag every platform agrees on, or the default tag.
func (g *Generator) buildTag(resolved []platform.Resolved) string {
	if g.Rules == nil {
		return DefaultTag
	}
	tag := ""
	for _, r := range resolved {
		t := g.Rules.Tag(r.Name(), r.Version)
		if tag != "" && t != tag {
			return DefaultTag
		}
		tag = t
	}
	return tag
}

func platformArgs(resolved []platform.Resolved) []string {
	var lines []string
	for _, r := range resolved {
		provider, ok := r.Platform.(platform.DockerfileArgs)
		if !ok {
			continue
		}
		args := provider.DockerfileArgs(r.Version)
		for _, name := range slices.Sorted(maps.Keys(args)) {
			lines = append(lines, fmt.Sprintf("ARG %s=%s", name, args[name]))
		}
	}
	return lines
}

// buildCommand pins every resolved version and forwards the remaining build
// properties so the image build reproduces this resolution.
func buildCommand(bc *platform.BuildContext, resolved []platform.Resolved) string {
	args := []string{"buildgen", "build-script", appDir, "--output", outputDir}
	main := resolved[0]
	args = append(args, "--platform", main.Name(), "--platform-version", main.Version)
	if len(resolved) > 1 {
		args = append(args, "--enable-multiplatform-build")
		for _, r := range resolved[1:] {
			args = append(args, "-p", platform.VersionProperty(r.Name())+"="+r.Version)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(bc.Properties)) {
		if strings.HasSuffix(strings.ToLower(k), "_version") {
			continue
		}
		args = append(args, "-p", k+"="+bc.Properties[k])
	}
	if bc.EnableDynamicInstall {
		args = append(args, "--enable-dynamic-install")
	}
	return shellquote.Join(args...) + " > /tmp/build.sh && bash /tmp/build.sh"
}

func filterEmpty(list []string) []string {
	filtered := []string{}
	for _, s := range list {
		if s != "" {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
