package dockerfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)
	require.Equal(t, 7, rules.Len())

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
		{"ruby", "2.7", "latest"},
		{"nodejs", "not-a-version", "latest"},
	} {
		require.Equal(t, tt.tag, rules.Tag(tt.platform, tt.version), "%s %s", tt.platform, tt.version)
	}

	require.Equal(t, "node", rules.Match("NodeJS", "12").Runtime)
	require.Nil(t, rules.Match("ruby", "2.7"))
}

func TestParseRulesWithoutHeader(t *testing.T) {
	rules, err := ParseRules(strings.NewReader("go,,>= 1.20 || < 1.10,alpine\n# comment\ngo,,,latest\n"))
	require.NoError(t, err)
	require.Equal(t, 2, rules.Len())
	require.Equal(t, "alpine", rules.Tag("go", "1.21"))
	require.Equal(t, "alpine", rules.Tag("go", "1.9"))
	require.Equal(t, "latest", rules.Tag("go", "1.15"))
}

func TestParseRulesEmpty(t *testing.T) {
	rules, err := ParseRules(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 0, rules.Len())
	require.Equal(t, DefaultTag, rules.Tag("nodejs", "12"))
}

func TestParseRulesErrors(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
		err   string
	}{
		{
			name:  "bad constraint",
			input: "platform,runtime,versions,tag\nnodejs,node,>= banana,slim\n",
			err:   "error parsing line 2, col 13:",
		},
		{
			name:  "bad first row",
			input: "nodejs,node,,\n",
			err:   "error parsing data row 1, col 14: tag cannot be empty",
		},
		{
			name:  "missing platform",
			input: "platform,runtime,versions,tag\n,node,,slim\n",
			err:   "error parsing line 2, col 1: platform cannot be empty",
		},
		{
			name:  "wrong field count",
			input: "nodejs,node,slim\n",
			err:   "invalid record length: expected 4 fields, got 3",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules(strings.NewReader(tt.input))
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.csv")
	require.NoError(t, os.WriteFile(path, []byte("platform,runtime,versions,tag\nnodejs,node-custom,,bookworm\n"), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Equal(t, "bookworm", rules.Tag("nodejs", "12"))

	rules, err = LoadRules("")
	require.NoError(t, err)
	require.Equal(t, 7, rules.Len())

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
