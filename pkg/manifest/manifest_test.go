package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/platform"
)

type stubPlatform struct {
	platform.Base
}

func (s *stubPlatform) Detect(ctx context.Context, bc *platform.BuildContext) (*platform.DetectionResult, error) {
	return nil, nil
}

func (s *stubPlatform) BuildSnippet(ctx context.Context, bc *platform.BuildContext, version string) (*platform.Snippet, error) {
	return &platform.Snippet{}, nil
}

func resolved(name, version string) platform.Resolved {
	return platform.Resolved{Platform: &stubPlatform{platform.Base{PlatformName: name}}, Version: version}
}

func TestEncode(t *testing.T) {
	m := New(
		[]platform.Resolved{resolved("python", "3.6.9"), resolved("nodejs", "12.16.1")},
		"op-1",
		map[string]string{"virtualenv_name": "antenv", "python_version": "ignored"},
	)

	require.Equal(t, `nodejs_version="12.16.1"
operation_id="op-1"
platforms="python,nodejs"
python_version="3.6.9"
virtualenv_name="antenv"
`, m.Encode())
}

func TestWriteRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	m := New([]platform.Resolved{resolved("php", "7.3")}, "", map[string]string{"note": `quote " and \ slash`})
	require.NoError(t, m.Write(dir))

	actual, err := Read(dir)
	require.NoError(t, err)
	require.Equal(t, m, actual)
	require.NotContains(t, actual, OperationIDKey)
}

func TestDecodeRejectsNonStrings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, global.ManifestFilename), []byte("count=3\n"), 0o644))

	_, err := Read(dir)
	require.ErrorContains(t, err, "expected a string")

	_, err = Decode([]byte("not toml"))
	require.Error(t, err)
}
