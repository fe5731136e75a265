package checker

import (
	"fmt"

	"github.com/replicate/buildgen/pkg/ignore"
	"github.com/replicate/buildgen/pkg/source"
)

var vendoredDirs = []string{"node_modules", ".venv", "venv", "vendor"}

// VendoredDependenciesChecker warns about dependency directories that would be
// copied into the build.
type VendoredDependenciesChecker struct{}

func (VendoredDependenciesChecker) Name() string {
	return "vendored-dependencies"
}

func (VendoredDependenciesChecker) CheckSourceRepo(repo source.Repo) ([]Message, error) {
	matcher, err := ignore.CreateMatcher(repo, ignore.GitIgnoreFilename, ignore.DockerIgnoreFilename)
	if err != nil {
		return nil, err
	}

	var messages []Message
	for _, dir := range vendoredDirs {
		if !repo.DirExists(dir) || matcher.Ignored(dir+"/") {
			continue
		}
		advice := "add it to " + ignore.GitIgnoreFilename
		if matcher.Empty() {
			advice = "create a " + ignore.GitIgnoreFilename + " that excludes it"
		}
		messages = append(messages, Message{
			Content: fmt.Sprintf("%s/ is checked in and will be copied into the build; %s", dir, advice),
		})
	}
	return messages, nil
}

func (VendoredDependenciesChecker) CheckToolVersions(tools map[string]string) ([]Message, error) {
	return nil, nil
}
