package checker

import (
	"fmt"
	"sort"

	goversion "github.com/hashicorp/go-version"

	"github.com/replicate/buildgen/pkg/source"
)

// EndOfLifeVersions maps a platform name to the constraint its unmaintained
// versions satisfy.
var EndOfLifeVersions = map[string]string{
	"nodejs": "< 14",
	"python": "< 3.8",
	"dotnet": "< 6.0",
	"php":    "< 8.0",
}

// EOLVersionsChecker warns when a tool version is past end of life.
type EOLVersionsChecker struct {
	// Constraints defaults to EndOfLifeVersions.
	Constraints map[string]string
}

func (EOLVersionsChecker) Name() string {
	return "eol-versions"
}

func (c EOLVersionsChecker) CheckSourceRepo(repo source.Repo) ([]Message, error) {
	return nil, nil
}

func (c EOLVersionsChecker) CheckToolVersions(tools map[string]string) ([]Message, error) {
	table := c.Constraints
	if table == nil {
		table = EndOfLifeVersions
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var messages []Message
	for _, name := range names {
		spec, ok := table[name]
		if !ok {
			continue
		}
		constraints, err := goversion.NewConstraint(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid end-of-life constraint for %s: %w", name, err)
		}
		v, err := goversion.NewVersion(tools[name])
		if err != nil {
			continue
		}
		if constraints.Check(v) {
			messages = append(messages, Message{
				Content: fmt.Sprintf("%s %s has reached end of life; consider upgrading", name, tools[name]),
			})
		}
	}
	return messages, nil
}
