// Package python builds Python applications into a virtual environment or a
// package directory.
package python

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"golang.org/x/sync/errgroup"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/version"
)

const (
	Name = "python"

	RequirementsTxt = "requirements.txt"
	SetupPy         = "setup.py"
	PyprojectToml   = "pyproject.toml"
	RuntimeTxt      = "runtime.txt"
	ManagePy        = "manage.py"

	VirtualEnvNameProperty     = "virtualenv_name"
	CompressVirtualEnvProperty = "compress_virtualenv"
	PackageDirProperty         = "packagedir"

	// DisableCollectStaticEnv skips Django's collectstatic at build time.
	DisableCollectStaticEnv = "DISABLE_COLLECTSTATIC"

	runtimePrefix = "python-"
)

var SupportedVersions = []string{
	"2.7.18",
	"3.6.15",
	"3.7.17",
	"3.8.18",
	"3.9.18",
	"3.10.13",
	"3.11.7",
	"3.12.1",
}

const DefaultVersion = "3.11.7"

var indicators = []string{RequirementsTxt, SetupPy, PyprojectToml, RuntimeTxt}

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

// probe checks every indicator file concurrently.
func probe(ctx context.Context, repo source.Repo) (map[string]bool, error) {
	var mu sync.Mutex
	found := map[string]bool{}

	g, _ := errgroup.WithContext(ctx)
	for _, name := range indicators {
		g.Go(func() error {
			if repo.FileExists(name) {
				mu.Lock()
				found[name] = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

func (p *Platform) Detect(ctx context.Context, bc *platform.BuildContext) (*platform.DetectionResult, error) {
	found, err := probe(ctx, bc.Source)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}

	result := &platform.DetectionResult{Platform: Name}
	if found[RuntimeTxt] {
		v, err := runtimeVersion(bc.Source)
		if err != nil {
			return nil, err
		}
		result.Version = v
	}
	return result, nil
}

// runtimeVersion reads "python-X.Y.Z" from runtime.txt. Other content is
// ignored.
func runtimeVersion(repo source.Repo) (string, error) {
	data, err := repo.ReadFile(RuntimeTxt)
	if err != nil {
		return "", &errors.DetectionParseError{Platform: Name, File: RuntimeTxt, Err: err}
	}
	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, runtimePrefix) {
		console.Debugf("Ignoring %s: expected content like %s3.8.1", RuntimeTxt, runtimePrefix)
		return "", nil
	}
	return strings.TrimPrefix(content, runtimePrefix), nil
}

// DefaultVirtualEnvName is "pythonenvX.Y" for version X.Y.Z.
func DefaultVirtualEnvName(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return "pythonenv" + v
	}
	return "pythonenv" + parts[0] + "." + parts[1]
}

func (p *Platform) BuildSnippet(ctx context.Context, bc *platform.BuildContext, v string) (*platform.Snippet, error) {
	found, err := probe(ctx, bc.Source)
	if err != nil {
		return nil, err
	}

	compress, _ := bc.Property(CompressVirtualEnvProperty)
	switch compress {
	case "", "tar-gz", "zip":
	default:
		return nil, errors.InvalidUsage(CompressVirtualEnvProperty, "expected tar-gz or zip, got %q", compress)
	}

	properties := map[string]string{}
	lines := []string{
		`echo "Python Version: $(python --version 2>&1)"`,
	}

	if packageDir, _ := bc.Property(PackageDirProperty); packageDir != "" {
		properties[PackageDirProperty] = packageDir
		lines = append(lines,
			"python -m pip install --upgrade pip",
			fmt.Sprintf("echo %s", shellquote.Join("Installing packages into '"+packageDir+"'...")),
			fmt.Sprintf("pip install -r %s --target=%s --upgrade", RequirementsTxt, shellquote.Join(packageDir)),
		)
	} else {
		venv, _ := bc.Property(VirtualEnvNameProperty)
		if venv == "" {
			venv = DefaultVirtualEnvName(v)
		}
		properties[VirtualEnvNameProperty] = venv

		lines = append(lines, createVirtualEnv(v, venv)...)
		lines = append(lines, "pip install --upgrade pip")
		switch {
		case found[RequirementsTxt]:
			lines = append(lines, "pip install --prefer-binary -r "+RequirementsTxt)
		case found[SetupPy], found[PyprojectToml]:
			lines = append(lines, "pip install .")
		}
	}

	if bc.Source.FileExists(ManagePy) {
		lines = append(lines, collectStatic())
	}

	lines = append(lines, platform.CopyToDestinationSnippet())

	if compress != "" {
		venv := properties[VirtualEnvNameProperty]
		if venv == "" {
			return nil, errors.InvalidUsage(CompressVirtualEnvProperty, "cannot be used together with %s", PackageDirProperty)
		}
		properties[CompressVirtualEnvProperty] = compress
		lines = append(lines, compressVirtualEnv(venv, compress))
	}

	return &platform.Snippet{Script: strings.Join(lines, "\n"), BuildProperties: properties}, nil
}

func createVirtualEnv(v, venv string) []string {
	q := shellquote.Join(venv)
	create := "python -m venv " + q
	if version.Compare(v, "3") < 0 {
		create = "python -m virtualenv " + q
	}
	return []string{
		"echo " + shellquote.Join("Creating virtual environment '"+venv+"'..."),
		create,
		"source " + q + "/bin/activate",
	}
}

func collectStatic() string {
	return strings.Join([]string{
		`if [ "$` + DisableCollectStaticEnv + `" != "true" ]; then`,
		`    echo "Running 'python manage.py collectstatic'..."`,
		`    python manage.py collectstatic --noinput || echo "'collectstatic' exited with exit code $?."`,
		`fi`,
	}, "\n")
}

func compressVirtualEnv(venv, format string) string {
	q := shellquote.Join(venv)
	command := "tar -zcf " + shellquote.Join(venv+".tar.gz") + " " + q
	if format == "zip" {
		command = "zip -y -q -r " + shellquote.Join(venv+".zip") + " " + q
	}
	return strings.Join([]string{
		`cd "$DESTINATION_DIR"`,
		command,
		"rm -rf " + q,
	}, "\n")
}
