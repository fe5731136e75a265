// Package source exposes the read-only view of a source repository that platform
// detectors and checkers work against.
package source

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"testing/fstest"
)

// Repo is a read-only source repository. Paths are slash separated and relative
// to the repository root.
type Repo interface {
	RootPath() string
	FileExists(name string) bool
	DirExists(name string) bool
	ReadFile(name string) ([]byte, error)
	Glob(pattern string) ([]string, error)
	GlobExists(pattern string) bool
}

// FSRepo implements Repo on top of any fs.FS.
type FSRepo struct {
	fsys fs.FS
	root string
}

func (r *FSRepo) RootPath() string {
	return r.root
}

func (r *FSRepo) FileExists(name string) bool {
	info, err := fs.Stat(r.fsys, clean(name))
	return err == nil && !info.IsDir()
}

func (r *FSRepo) DirExists(name string) bool {
	info, err := fs.Stat(r.fsys, clean(name))
	return err == nil && info.IsDir()
}

func (r *FSRepo) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(r.fsys, clean(name))
}

// Glob returns the sorted paths matching pattern.
func (r *FSRepo) Glob(pattern string) ([]string, error) {
	matches, err := fs.Glob(r.fsys, pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// GlobExists reports whether at least one path matches pattern.
func (r *FSRepo) GlobExists(pattern string) bool {
	files, err := r.Glob(pattern)
	if err != nil {
		return false
	}
	return len(files) > 0
}

// LocalRepo is a Repo rooted at a directory on disk. Access outside the root,
// including through symlinks, is refused.
type LocalRepo struct {
	FSRepo

	root *os.Root
}

func NewLocalRepo(dir string) (*LocalRepo, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}

	return &LocalRepo{
		FSRepo: FSRepo{fsys: root.FS(), root: dir},
		root:   root,
	}, nil
}

func (r *LocalRepo) Close() error {
	return r.root.Close()
}

// NewMemoryRepo returns a Repo backed by an in-memory file map, keyed by
// slash-separated path. Intermediate directories are implied.
func NewMemoryRepo(root string, files map[string]string) *FSRepo {
	mfs := fstest.MapFS{}
	for name, content := range files {
		mfs[clean(name)] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return &FSRepo{fsys: mfs, root: root}
}

// IsNotExist reports whether err says a file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func clean(name string) string {
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}
	return name[1:]
}
