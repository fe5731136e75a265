package platform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/replicate/buildgen/pkg/util/files"
)

// SentinelFilename marks a completed download and extraction of a version.
const SentinelFilename = ".buildgen-sdk-download-sentinel"

const DefaultSDKStorageBaseURL = "https://buildgensdks.blob.core.windows.net"

// Installer tracks where versions of a platform live: preinstalled under
// BuiltInDir, or dynamically installed under Root.
type Installer struct {
	Root       string
	BuiltInDir string
}

// Dir is where name/version gets installed dynamically.
func (i *Installer) Dir(name, version string) string {
	return filepath.Join(i.Root, name, version)
}

// IsVersionInstalled trusts the sentinel file without re-checking what was
// extracted.
func (i *Installer) IsVersionInstalled(name, version string) bool {
	if i.BuiltInDir != "" && files.ExistsQuiet(filepath.Join(i.BuiltInDir, version)) {
		return true
	}
	if i.Root == "" {
		return false
	}
	return files.ExistsQuiet(SentinelPath(i.Root, name, version))
}

func SentinelPath(root, name, version string) string {
	return filepath.Join(root, name, version, SentinelFilename)
}

// SDKInstallSnippet downloads the tarball for name/version from
// $SDK_STORAGE_BASE_URL and extracts it into dir.
func SDKInstallSnippet(name, version, dir string) string {
	qdir := shellquote.Join(dir)
	tarball := shellquote.Join(fmt.Sprintf("%s-%s.tar.gz", name, version))

	lines := []string{
		"PLATFORM_SETUP_START=$SECONDS",
		fmt.Sprintf("echo \"Downloading and extracting '%s' version '%s' to %s...\"", name, version, dir),
		"rm -rf " + qdir,
		"mkdir -p " + qdir,
		"cd " + qdir,
		fmt.Sprintf(`curl -D headers.txt -fSL "${SDK_STORAGE_BASE_URL:-%s}/%s/"%s --output %s >/dev/null 2>&1`,
			DefaultSDKStorageBaseURL, name, tarball, tarball),
		"tar -xzf " + tarball + " -C .",
		"rm -f " + tarball + " headers.txt",
		"PLATFORM_SETUP_ELAPSED_TIME=$(($SECONDS - $PLATFORM_SETUP_START))",
		`echo "Downloaded in $PLATFORM_SETUP_ELAPSED_TIME sec(s)."`,
		"cd - > /dev/null",
	}
	return strings.Join(lines, "\n")
}
