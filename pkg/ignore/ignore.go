// Package ignore matches repository paths against .gitignore and .dockerignore
// patterns.
package ignore

import (
	"bufio"
	"bytes"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/replicate/buildgen/pkg/source"
)

const (
	GitIgnoreFilename    = ".gitignore"
	DockerIgnoreFilename = ".dockerignore"
)

// Matcher combines the ignore files found at the root of a repository. A path is
// ignored when any of them ignores it.
type Matcher struct {
	matchers []*gitignore.GitIgnore
}

// CreateMatcher reads the named ignore files from repo. Missing files are
// skipped.
func CreateMatcher(repo source.Repo, filenames ...string) (*Matcher, error) {
	m := &Matcher{}
	for _, name := range filenames {
		if !repo.FileExists(name) {
			continue
		}
		data, err := repo.ReadFile(name)
		if err != nil {
			return nil, err
		}
		patterns, err := readLines(data)
		if err != nil {
			return nil, err
		}
		m.matchers = append(m.matchers, gitignore.CompileIgnoreLines(patterns...))
	}
	return m, nil
}

// Empty reports whether no ignore file was found.
func (m *Matcher) Empty() bool {
	return len(m.matchers) == 0
}

func (m *Matcher) Ignored(path string) bool {
	for _, matcher := range m.matchers {
		if matcher.MatchesPath(path) {
			return true
		}
	}
	return false
}

func readLines(data []byte) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	return patterns, scanner.Err()
}
