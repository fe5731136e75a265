// Package php builds PHP applications with composer.
package php

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/source"
)

const (
	Name         = "php"
	ComposerJSON = "composer.json"
)

var SupportedVersions = []string{
	"5.6.40",
	"7.0.33",
	"7.2.34",
	"7.3.33",
	"7.4.33",
	"8.0.30",
	"8.1.27",
	"8.2.15",
	"8.3.2",
}

const DefaultVersion = "8.2.15"

// composer separates alternatives with "|" or "||".
var alternatives = regexp.MustCompile(`\s*\|{1,2}\s*`)

// Platform does not take part in multi-platform builds.
type Platform struct {
	platform.Base
}

func New(installer *platform.Installer, disabled bool) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: Name,
		Versions:     SupportedVersions,
		Default:      DefaultVersion,
		Disabled:     disabled,
		SingleOnly:   true,
		Installer:    installer,
	}}
}

type composerJSON struct {
	Require map[string]any `json:"require"`
}

func readComposerJSON(repo source.Repo) (*composerJSON, error) {
	if !repo.FileExists(ComposerJSON) {
		return nil, nil
	}
	data, err := repo.ReadFile(ComposerJSON)
	if err != nil {
		return nil, err
	}
	composer := &composerJSON{}
	if err := json.Unmarshal(data, composer); err != nil {
		return nil, &errors.DetectionParseError{Platform: Name, File: ComposerJSON, Err: err}
	}
	return composer, nil
}

func (p *Platform) Detect(ctx context.Context, bc *platform.BuildContext) (*platform.DetectionResult, error) {
	composer, err := readComposerJSON(bc.Source)
	if err != nil {
		return nil, err
	}
	if composer != nil {
		return &platform.DetectionResult{Platform: Name, Version: composer.phpVersion()}, nil
	}

	if bc.Source.GlobExists("*.php") {
		return &platform.DetectionResult{Platform: Name}, nil
	}
	return nil, nil
}

func (c *composerJSON) phpVersion() string {
	v, _ := c.Require["php"].(string)
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return alternatives.ReplaceAllString(v, " || ")
}

func (p *Platform) BuildSnippet(ctx context.Context, bc *platform.BuildContext, v string) (*platform.Snippet, error) {
	lines := []string{
		`echo "PHP executable: $(which php)"`,
	}
	if bc.Source.FileExists(ComposerJSON) {
		lines = append(lines,
			`echo "Running 'composer install'..."`,
			"composer validate --no-check-publish",
			"composer install --no-dev --no-interaction --prefer-dist --optimize-autoloader",
		)
	} else {
		lines = append(lines, `echo "No 'composer.json' file found; not running 'composer install'."`)
	}
	lines = append(lines, platform.CopyToDestinationSnippet())

	return &platform.Snippet{Script: strings.Join(lines, "\n")}, nil
}
