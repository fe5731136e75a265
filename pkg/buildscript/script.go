package buildscript

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/manifest"
	"github.com/replicate/buildgen/pkg/platform"
)

const manifestDirExpr = `${MANIFEST_DIR:-$DESTINATION_DIR}`

// assemble composes the script from already resolved platforms. It does not
// touch the file system.
func assemble(ctx context.Context, bc *platform.BuildContext, resolved []platform.Resolved, operationID string) (string, error) {
	installs, err := installSection(bc, resolved)
	if err != nil {
		return "", err
	}

	builds, properties, err := buildSection(ctx, bc, resolved)
	if err != nil {
		return "", err
	}

	m := manifest.New(resolved, operationID, properties)

	return strings.Join(filterEmpty([]string{
		header(bc),
		installs,
		envSetup(bc, resolved),
		buildEnvLoad(),
		builds,
		manifestSection(m),
		`echo "Done in $SECONDS sec(s)."`,
	}), "\n\n") + "\n", nil
}

func header(bc *platform.BuildContext) string {
	lines := []string{
		"#!/bin/bash",
		"set -e",
		"",
		"export SOURCE_DIR=" + shellquote.Join(bc.SourceDir),
		"export DESTINATION_DIR=" + shellquote.Join(destinationDir(bc)),
		"export INTERMEDIATE_DIR=" + shellquote.Join(bc.IntermediateDir),
	}
	if bc.ManifestDir != "" {
		lines = append(lines, "export MANIFEST_DIR="+shellquote.Join(bc.ManifestDir))
	}
	lines = append(lines,
		"",
		`echo "Source directory      : $SOURCE_DIR"`,
		`echo "Destination directory : $DESTINATION_DIR"`,
		"echo",
	)
	return strings.Join(lines, "\n")
}

func destinationDir(bc *platform.BuildContext) string {
	if bc.DestinationDir != "" {
		return bc.DestinationDir
	}
	return bc.SourceDir
}

func installSection(bc *platform.BuildContext, resolved []platform.Resolved) (string, error) {
	if !bc.EnableDynamicInstall {
		return "", nil
	}

	root := bc.DynamicInstallRoot
	if root == "" {
		root = global.DefaultInstallRoot
	}

	var sections []string
	for _, r := range resolved {
		if r.Platform.IsVersionAlreadyInstalled(r.Version) {
			continue
		}
		snippet, err := r.Platform.InstallSnippet(r.Version)
		if err != nil {
			return "", fmt.Errorf("failed to generate install snippet for %s %s: %w", r.Name(), r.Version, err)
		}
		if snippet == "" {
			continue
		}
		sentinel := platform.SentinelPath(root, r.Name(), r.Version)
		sections = append(sections, strings.Join([]string{
			strings.TrimRight(snippet, "\n"),
			"mkdir -p " + shellquote.Join(filepath.Dir(sentinel)),
			"echo > " + shellquote.Join(sentinel),
		}, "\n"))
	}
	return strings.Join(sections, "\n\n"), nil
}

// envSetup puts every resolved runtime on the path before any build runs.
func envSetup(bc *platform.BuildContext, resolved []platform.Resolved) string {
	script := bc.EnvSetupScript
	if script == "" {
		script = global.EnvSetupScriptPath
	}

	args := make([]string, 0, len(resolved))
	for _, r := range resolved {
		args = append(args, r.Name()+"="+r.Version)
	}
	q := shellquote.Join(script)
	return strings.Join([]string{
		"if [ -f " + q + " ]; then",
		"    source " + q + " " + shellquote.Join(args...),
		"fi",
	}, "\n")
}

func buildEnvLoad() string {
	path := `"$SOURCE_DIR/` + global.BuildEnvFilename + `"`
	return strings.Join([]string{
		"if [ -f " + path + " ]; then",
		"    set -a",
		"    source " + path,
		"    set +a",
		"fi",
	}, "\n")
}

func buildSection(ctx context.Context, bc *platform.BuildContext, resolved []platform.Resolved) (string, map[string]string, error) {
	properties := map[string]string{}
	var sections []string
	for i, r := range resolved {
		snippet, err := r.Platform.BuildSnippet(ctx, bc, r.Version)
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate build snippet for %s %s: %w", r.Name(), r.Version, err)
		}
		if snippet == nil {
			return "", nil, fmt.Errorf("platform %s returned no build snippet for version %s", r.Name(), r.Version)
		}
		for k, v := range snippet.BuildProperties {
			properties[k] = v
		}

		parts := []string{}
		if i == 0 {
			parts = append(parts, hook("pre"))
		}
		parts = append(parts, `cd "$SOURCE_DIR"`, strings.TrimRight(snippet.Script, "\n"))
		if i == 0 {
			parts = append(parts, hook("post"))
		}
		sections = append(sections, strings.Join(filterEmpty(parts), "\n\n"))
	}
	return strings.Join(sections, "\n\n"), properties, nil
}

// hook runs the PRE_/POST_ build command and script, if set at build time.
func hook(stage string) string {
	upper := strings.ToUpper(stage)
	command := "$" + upper + "_BUILD_COMMAND"
	script := "$" + upper + "_BUILD_SCRIPT_PATH"
	return strings.Join([]string{
		fmt.Sprintf(`if [ -n "%s" ]; then`, command),
		fmt.Sprintf(`    echo "Executing %s-build command..."`, stage),
		fmt.Sprintf(`    (cd "$SOURCE_DIR" && eval "%s")`, command),
		"fi",
		fmt.Sprintf(`if [ -n "%s" ]; then`, script),
		fmt.Sprintf(`    echo "Executing %s-build script %s..."`, stage, script),
		fmt.Sprintf(`    (cd "$SOURCE_DIR" && chmod +x "%s" && "%s")`, script, script),
		"fi",
	}, "\n")
}

func manifestSection(m manifest.Manifest) string {
	return strings.Join([]string{
		`mkdir -p "` + manifestDirExpr + `"`,
		`cat > "` + manifestDirExpr + `/` + global.ManifestFilename + `" <<'BUILDGEN_MANIFEST'`,
		strings.TrimRight(m.Encode(), "\n"),
		"BUILDGEN_MANIFEST",
	}, "\n")
}

func filterEmpty(list []string) []string {
	filtered := []string{}
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
