package dockerfile

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-version"
)

const DefaultTag = "latest"

//go:embed base-image-rules.csv
var baseImageRulesCSV []byte

// Rule maps versions of a platform to a build-image tag. The first rule that
// matches a platform and version wins.
type Rule struct {
	Platform string
	// Runtime overrides the runtime image name when set.
	Runtime  string
	Versions string
	Tag      string

	matches func(v *version.Version) bool
}

func (r *Rule) Matches(platformName, v string) bool {
	if !strings.EqualFold(r.Platform, platformName) {
		return false
	}
	if r.matches == nil {
		return true
	}
	parsed, err := version.NewVersion(v)
	if err != nil {
		return false
	}
	return r.matches(parsed)
}

type Rules struct {
	rules []*Rule
}

func DefaultRules() (*Rules, error) {
	return ParseRules(bytes.NewReader(baseImageRulesCSV))
}

// LoadRules reads a rule table from path, or returns the default table when path
// is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rules, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// Match returns the first rule for platformName and v, or nil.
func (r *Rules) Match(platformName, v string) *Rule {
	for _, rule := range r.rules {
		if rule.Matches(platformName, v) {
			return rule
		}
	}
	return nil
}

// Tag returns the build-image tag for platformName at v.
func (r *Rules) Tag(platformName, v string) string {
	if rule := r.Match(platformName, v); rule != nil && rule.Tag != "" {
		return rule.Tag
	}
	return DefaultTag
}

func (r *Rules) Len() int {
	return len(r.rules)
}

// ParseRules reads CSV records of platform,runtime,versions,tag. A leading
// header row is skipped.
func ParseRules(r io.Reader) (*Rules, error) {
	csvR := csv.NewReader(r)
	csvR.ReuseRecord = true
	csvR.FieldsPerRecord = -1
	csvR.Comment = '#'

	var rules []*Rule
	var fieldParseErr fieldParseErr

	firstRecord, err := csvR.Read()
	if err != nil {
		if err == io.EOF {
			return &Rules{}, nil
		}
		return nil, err
	}

	if len(firstRecord) == 0 || strings.TrimSpace(firstRecord[0]) != "platform" {
		rule, err := parseRecord(firstRecord)
		if err != nil {
			if errors.As(err, &fieldParseErr) {
				_, col := csvR.FieldPos(fieldParseErr.field)
				return nil, fmt.Errorf("error parsing data row 1, col %d: %w", col, err)
			}
			return nil, err
		}
		rules = append(rules, rule)
	}

	for {
		record, err := csvR.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rule, err := parseRecord(record)
		if err != nil {
			if errors.As(err, &fieldParseErr) {
				line, col := csvR.FieldPos(fieldParseErr.field)
				return nil, fmt.Errorf("error parsing line %d, col %d: %w", line, col, err)
			}
			return nil, err
		}
		rules = append(rules, rule)
	}

	return &Rules{rules: rules}, nil
}

func parseRecord(record []string) (*Rule, error) {
	// CSV structure:
	//   0: platform
	//   1: runtime (optional)
	//   2: versions, go-version constraints joined by "||" (empty matches all)
	//   3: tag
	if len(record) != 4 {
		return nil, fmt.Errorf("invalid record length: expected 4 fields, got %d", len(record))
	}

	const (
		platformField = 0
		runtimeField  = 1
		versionsField = 2
		tagField      = 3
	)

	rule := &Rule{
		Platform: strings.TrimSpace(record[platformField]),
		Runtime:  strings.TrimSpace(record[runtimeField]),
		Versions: strings.TrimSpace(record[versionsField]),
		Tag:      strings.TrimSpace(record[tagField]),
	}

	if rule.Platform == "" {
		return nil, fieldParseErr{field: platformField, err: errors.New("platform cannot be empty")}
	}
	if rule.Tag == "" {
		return nil, fieldParseErr{field: tagField, err: errors.New("tag cannot be empty")}
	}
	if rule.Versions != "" {
		matches, err := parseConstraints(rule.Versions)
		if err != nil {
			return nil, fieldParseErr{field: versionsField, err: err}
		}
		rule.matches = matches
	}

	return rule, nil
}

func parseConstraints(c string) (func(v *version.Version) bool, error) {
	var constraints []version.Constraints
	for _, spec := range strings.Split(c, "||") {
		constraintSet, err := version.NewConstraint(spec)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, constraintSet)
	}
	return func(v *version.Version) bool {
		for _, constraint := range constraints {
			if constraint.Check(v) {
				return true
			}
		}
		return false
	}, nil
}

type fieldParseErr struct {
	field int
	err   error
}

func (e fieldParseErr) Error() string {
	return e.err.Error()
}
