// Package version resolves version specifiers against a platform's supported
// versions.
package version

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var (
	ErrNoVersion = errors.New("no version requested and no default version")
	ErrNoMatch   = errors.New("no supported version satisfies the specifier")
)

// Resolve picks the concrete version to use from supported. An empty request
// falls back to defaultVersion, which is itself resolved when it is only a
// partial specifier. A request that is literally one of the supported versions
// is returned as is. Anything else is treated as a specifier and the highest
// satisfying supported version wins.
func Resolve(requested string, supported []string, defaultVersion string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = strings.TrimSpace(defaultVersion)
		if requested == "" {
			return "", ErrNoVersion
		}
	}

	if slices.Contains(supported, requested) {
		return requested, nil
	}

	return MaxSatisfying(requested, supported)
}

// MaxSatisfying returns the highest element of supported matching spec. Entries
// that are not valid versions are ignored.
func MaxSatisfying(spec string, supported []string) (string, error) {
	matches, err := Parse(spec)
	if err != nil {
		return "", err
	}

	var best *goversion.Version
	bestRaw := ""
	for _, raw := range supported {
		v, err := goversion.NewVersion(raw)
		if err != nil {
			continue
		}
		if !matches(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	if best == nil {
		return "", ErrNoMatch
	}
	return bestRaw, nil
}

// Parse turns a specifier into a predicate. Supported forms are exact and partial
// versions ("2", "2.1"), wildcards ("12.x", "3.*"), caret and tilde ranges,
// comparators separated by spaces or commas, hyphen ranges ("10 - 12") and "||"
// alternatives.
func Parse(spec string) (func(*goversion.Version) bool, error) {
	var alternatives []goversion.Constraints
	for _, alt := range strings.Split(spec, "||") {
		expr, err := translate(alt)
		if err != nil {
			return nil, fmt.Errorf("invalid version specifier %q: %w", spec, err)
		}
		constraints, err := goversion.NewConstraint(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid version specifier %q: %w", spec, err)
		}
		alternatives = append(alternatives, constraints)
	}

	return func(v *goversion.Version) bool {
		for _, c := range alternatives {
			if c.Check(v) {
				return true
			}
		}
		return false
	}, nil
}

var operators = []string{"~>", ">=", "<=", "!=", ">", "<", "=", "^", "~"}

// translate rewrites one "||" alternative into go-version constraint syntax.
func translate(alt string) (string, error) {
	tokens := strings.Fields(strings.ReplaceAll(alt, ",", " "))
	if len(tokens) == 0 {
		return "", errors.New("empty specifier")
	}

	var terms []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		// A hyphen range: "10 - 12".
		if i+2 < len(tokens) && tokens[i+1] == "-" {
			term, err := hyphenRange(tok, tokens[i+2])
			if err != nil {
				return "", err
			}
			terms = append(terms, term...)
			i += 2
			continue
		}
		// An operator separated from its operand by whitespace: ">= 2.0".
		if slices.Contains(operators, tok) {
			if i+1 >= len(tokens) {
				return "", fmt.Errorf("operator %q has no version", tok)
			}
			i++
			tok += tokens[i]
		}

		term, err := translateTerm(tok)
		if err != nil {
			return "", err
		}
		terms = append(terms, term...)
	}
	return strings.Join(terms, ", "), nil
}

func translateTerm(tok string) ([]string, error) {
	op := ""
	for _, candidate := range operators {
		if strings.HasPrefix(tok, candidate) {
			op = candidate
			break
		}
	}
	operand := strings.TrimPrefix(strings.TrimSpace(tok[len(op):]), "v")

	segments, err := parseSegments(operand)
	if err != nil {
		return nil, err
	}

	switch op {
	case "", "=":
		return prefixRange(segments), nil
	case "^":
		return caretRange(segments), nil
	case "~":
		return tildeRange(segments), nil
	case "~>":
		return []string{op + " " + operand}, nil
	default:
		if len(segments) == 0 {
			return nil, fmt.Errorf("operator %q needs a concrete version", op)
		}
		return []string{op + " " + join(segments)}, nil
	}
}

// parseSegments reads the numeric segments of a partial version, stopping at the
// first wildcard segment. Build metadata and prerelease suffixes are not allowed.
func parseSegments(s string) ([]int, error) {
	if s == "" {
		return nil, errors.New("missing version")
	}
	var segments []int
	for _, part := range strings.Split(s, ".") {
		if part == "x" || part == "X" || part == "*" {
			break
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version segment %q in %q", part, s)
		}
		segments = append(segments, n)
	}
	return segments, nil
}

func join(segments []int) string {
	parts := make([]string, len(segments))
	for i, n := range segments {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// prefixRange matches every version whose leading segments equal segments.
func prefixRange(segments []int) []string {
	switch {
	case len(segments) == 0:
		return []string{">= 0"}
	case len(segments) > 3:
		return []string{"= " + join(segments)}
	}
	upper := slices.Clone(segments)
	upper[len(upper)-1]++
	return []string{">= " + join(segments), "< " + join(upper)}
}

// hyphenRange is inclusive at both ends. A partial upper bound covers every
// version it prefixes, so "10 - 12" admits 12.22.12.
func hyphenRange(from, to string) ([]string, error) {
	lower, err := parseSegments(strings.TrimPrefix(from, "v"))
	if err != nil {
		return nil, err
	}
	upper, err := parseSegments(strings.TrimPrefix(to, "v"))
	if err != nil {
		return nil, err
	}

	terms := []string{">= 0"}
	if len(lower) > 0 {
		terms[0] = ">= " + join(lower)
	}
	switch {
	case len(upper) == 0:
	case len(upper) >= 3:
		terms = append(terms, "<= "+join(upper))
	default:
		terms = append(terms, prefixRange(upper)[1])
	}
	return terms, nil
}

func caretRange(segments []int) []string {
	if len(segments) == 0 {
		return []string{">= 0"}
	}
	// Bump the first non-zero segment, or the last given one if all are zero.
	idx := len(segments) - 1
	for i, n := range segments {
		if n != 0 {
			idx = i
			break
		}
	}
	upper := slices.Clone(segments[:idx+1])
	upper[idx]++
	return []string{">= " + join(segments), "< " + join(upper)}
}

func tildeRange(segments []int) []string {
	switch len(segments) {
	case 0:
		return []string{">= 0"}
	case 1:
		return []string{">= " + join(segments), "< " + strconv.Itoa(segments[0]+1)}
	}
	upper := []int{segments[0], segments[1] + 1}
	return []string{">= " + join(segments), "< " + join(upper)}
}

// Compare orders two versions semantically. Strings that do not parse compare
// lexically after all valid versions.
func Compare(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	if c := va.Compare(vb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Sort returns a copy of versions in ascending semantic order.
func Sort(versions []string) []string {
	sorted := slices.Clone(versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}
