// Package manifest writes and reads the build manifest: a flat file of
// key="value" lines recording what a build used, read back by later stages.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/replicate/buildgen/pkg/global"
	"github.com/replicate/buildgen/pkg/platform"
)

const (
	PlatformsKey   = "platforms"
	OperationIDKey = "operation_id"
)

// Manifest maps stable, namespaced keys such as "nodejs_version" to values.
type Manifest map[string]string

// New records the resolved platforms, the operation ID and any build properties
// contributed by snippets. Properties never override the version keys.
func New(resolved []platform.Resolved, operationID string, properties map[string]string) Manifest {
	m := Manifest{}
	for k, v := range properties {
		m[k] = v
	}

	names := make([]string, 0, len(resolved))
	for _, r := range resolved {
		names = append(names, r.Name())
		m[platform.VersionProperty(r.Name())] = r.Version
	}
	m[PlatformsKey] = strings.Join(names, ",")
	if operationID != "" {
		m[OperationIDKey] = operationID
	}
	return m
}

func (m Manifest) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode renders one key="value" line per entry, sorted by key.
func (m Manifest) Encode() string {
	var sb strings.Builder
	for _, k := range m.Keys() {
		fmt.Fprintf(&sb, "%s=%s\n", k, strconv.Quote(m[k]))
	}
	return sb.String()
}

// Write stores the manifest in dir.
func (m Manifest) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, global.ManifestFilename), []byte(m.Encode()), 0o644)
}

func Decode(data []byte) (Manifest, error) {
	raw := map[string]any{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	m := Manifest{}
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("manifest key %s: expected a string, got %T", k, v)
		}
		m[k] = s
	}
	return m, nil
}

// Read loads the manifest from dir.
func Read(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, global.ManifestFilename))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
