package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/replicate/buildgen/pkg/global"
)

// Parse reads, validates and parses a config file.
func Parse(filename string) (*ConfigFile, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, &ParseError{Filename: filepath.Base(filename), Err: err}
	}
	return ParseBytes(contents, filepath.Base(filename))
}

// ParseBytes validates YAML content against the schema and parses it into a
// ConfigFile. The filename is used for error messages only.
func ParseBytes(contents []byte, filename string) (*ConfigFile, error) {
	cfg := &ConfigFile{}

	if len(contents) == 0 {
		// Empty file is valid, returns empty config
		return cfg, nil
	}

	if err := Validate(contents, filename); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, &ParseError{
			Filename: filename,
			Err:      fmt.Errorf("invalid YAML: %w", err),
		}
	}

	return cfg, nil
}

// ParseReader parses from an io.Reader (useful for testing).
func ParseReader(r io.Reader, filename string) (*ConfigFile, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return ParseBytes(contents, filename)
}

// FindConfigFile returns the path of buildgen.yaml in dir, or "" when the
// directory has none.
func FindConfigFile(dir string) (string, error) {
	path := filepath.Join(dir, global.ConfigFilename)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	case err != nil:
		return "", err
	case info.IsDir():
		return "", &ValidationError{Field: "config file", Value: path, Message: "is a directory"}
	}
	return path, nil
}

// Load parses the config file at explicitPath, or buildgen.yaml in sourceDir
// when explicitPath is empty. A missing implicit file yields an empty config;
// a missing explicit one is an error.
func Load(sourceDir, explicitPath string) (*ConfigFile, string, error) {
	path := explicitPath
	if path == "" {
		found, err := FindConfigFile(sourceDir)
		if err != nil {
			return nil, "", err
		}
		if found == "" {
			return &ConfigFile{}, "", nil
		}
		path = found
	}

	cfg, err := Parse(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
