package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepo(t *testing.T) {
	repo := NewMemoryRepo("/src", map[string]string{
		"package.json":       `{}`,
		"src/app/main.py":    "print(1)",
		"./requirements.txt": "flask",
	})

	require.Equal(t, "/src", repo.RootPath())
	require.True(t, repo.FileExists("package.json"))
	require.True(t, repo.FileExists("/requirements.txt"))
	require.False(t, repo.FileExists("src"))
	require.True(t, repo.DirExists("src/app"))
	require.False(t, repo.DirExists("package.json"))

	data, err := repo.ReadFile("src/app/main.py")
	require.NoError(t, err)
	require.Equal(t, "print(1)", string(data))

	_, err = repo.ReadFile("missing.txt")
	require.True(t, IsNotExist(err))

	matches, err := repo.Glob("*.json")
	require.NoError(t, err)
	require.Equal(t, []string{"package.json"}, matches)
	require.False(t, repo.GlobExists("*.csproj"))
}

func TestLocalRepo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.csproj"), []byte("<Project/>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0o755))

	repo, err := NewLocalRepo(dir)
	require.NoError(t, err)
	defer repo.Close()

	require.Equal(t, dir, repo.RootPath())
	require.True(t, repo.FileExists("app.csproj"))
	require.True(t, repo.DirExists("node_modules"))
	require.True(t, repo.GlobExists("*.csproj"))

	_, err = repo.ReadFile("../outside")
	require.Error(t, err)
}

func TestNewLocalRepoMissingDir(t *testing.T) {
	_, err := NewLocalRepo(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
