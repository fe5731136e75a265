// Package platforms builds the default, ordered platform registry.
package platforms

import (
	"path/filepath"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/platforms/dotnet"
	"github.com/replicate/buildgen/pkg/platforms/nodejs"
	"github.com/replicate/buildgen/pkg/platforms/php"
	"github.com/replicate/buildgen/pkg/platforms/python"
)

// Options controls how the default registry is built.
type Options struct {
	// InstallRoot is where SDKs are installed dynamically.
	InstallRoot string
	// BuiltInRoot holds the SDKs preinstalled on the build image, one directory
	// per platform.
	BuiltInRoot string
	// Disabled lists platform names to switch off.
	Disabled map[string]bool
}

// Names is the registry order. Detection tries platforms in this order and the
// first match becomes the main platform.
var Names = []string{dotnet.Name, nodejs.Name, python.Name, php.Name}

// builtInDirs maps each platform to its directory under BuiltInRoot.
var builtInDirs = map[string]string{
	dotnet.Name: "dotnet/runtimes",
	nodejs.Name: "nodejs",
	python.Name: "python",
	php.Name:    "php",
}

func Default(opts Options) []platform.Platform {
	installRoot := opts.InstallRoot
	if installRoot == "" {
		installRoot = global.DefaultInstallRoot
	}
	builtInRoot := opts.BuiltInRoot
	if builtInRoot == "" {
		builtInRoot = global.DefaultBuiltInRoot
	}

	installer := func(name string) *platform.Installer {
		return &platform.Installer{
			Root:       installRoot,
			BuiltInDir: filepath.Join(builtInRoot, builtInDirs[name]),
		}
	}

	return []platform.Platform{
		dotnet.New(installer(dotnet.Name), opts.Disabled[dotnet.Name]),
		nodejs.New(installer(nodejs.Name), opts.Disabled[nodejs.Name]),
		python.New(installer(python.Name), opts.Disabled[python.Name]),
		php.New(installer(php.Name), opts.Disabled[php.Name]),
	}
}
