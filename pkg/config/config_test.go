package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicate/buildgen/pkg/global"
)

var known = []string{"dotnet", "nodejs", "python", "php"}

func TestParseBytes(t *testing.T) {
	cfg, err := ParseBytes([]byte(`platform: nodejs
platform_version: 12
enable_multiplatform_build: true
disabled_platforms:
  - php
properties:
  registry: https://registry.example.com
  prune_dev_dependencies: true
`), "buildgen.yaml")
	require.NoError(t, err)

	require.NotNil(t, cfg.Platform)
	assert.Equal(t, "nodejs", *cfg.Platform)
	require.NotNil(t, cfg.PlatformVersion)
	assert.Equal(t, "12", *cfg.PlatformVersion)
	require.NotNil(t, cfg.EnableMultiPlatformBuild)
	assert.True(t, *cfg.EnableMultiPlatformBuild)
	assert.Nil(t, cfg.EnableDynamicInstall)
	assert.Equal(t, []string{"php"}, cfg.DisabledPlatforms)
	assert.Equal(t, "true", cfg.Properties["prune_dev_dependencies"])
}

func TestParseBytesEmpty(t *testing.T) {
	cfg, err := ParseBytes(nil, "buildgen.yaml")
	require.NoError(t, err)
	assert.Equal(t, &ConfigFile{}, cfg)
}

func TestParseBytesSchemaErrors(t *testing.T) {
	for _, tt := range []struct {
		name     string
		yaml     string
		contains string
	}{
		{"unknown option", "platfrom: nodejs\n", `unknown option "platfrom"`},
		{"wrong type", "enable_checkers: sometimes\n", "enable_checkers must be a boolean"},
		{"list expected", "disabled_platforms: php\n", "disabled_platforms must be a list or null"},
		{"nested property", "properties:\n  registry: [a, b]\n", "must be a string, number or boolean"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.yaml), "buildgen.yaml")
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "buildgen.yaml")
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestParseBytesInvalidYAML(t *testing.T) {
	_, err := ParseBytes([]byte("platform: [nodejs\n"), "buildgen.yaml")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "buildgen.yaml", parseErr.Filename)
}

func TestLoad(t *testing.T) {
	t.Run("missing implicit file", func(t *testing.T) {
		cfg, path, err := Load(t.TempDir(), "")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, &ConfigFile{}, cfg)
	})

	t.Run("implicit file in source dir", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, global.ConfigFilename), []byte("platform: python\n"), 0o644))

		cfg, path, err := Load(dir, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, global.ConfigFilename), path)
		assert.Equal(t, "python", *cfg.Platform)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("config path is a directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, global.ConfigFilename), 0o755))

		_, _, err := Load(dir, "")
		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
	})
}

func TestComplete(t *testing.T) {
	platform := "nodejs"
	version := "12"
	rules := "rules.csv"
	cfg := &ConfigFile{
		Platform:          &platform,
		PlatformVersion:   &version,
		ImageRules:        &rules,
		DisabledPlatforms: []string{"PHP"},
		Properties:        map[string]string{"registry": "r"},
	}

	opts, err := Complete(cfg, "/src/buildgen.yaml", known)
	require.NoError(t, err)
	assert.Equal(t, "nodejs", opts.Platform)
	assert.Equal(t, "12", opts.PlatformVersion)
	assert.Equal(t, filepath.Join("/src", "rules.csv"), opts.ImageRules)
	assert.Equal(t, []string{"php"}, opts.DisabledNames())
	assert.Equal(t, "r", opts.Properties["registry"])
	assert.Equal(t, global.DefaultInstallRoot, opts.DynamicInstallRoot)
	assert.Equal(t, global.DefaultBuiltInRoot, opts.BuiltInRoot)
	assert.Equal(t, global.DefaultBuildImage, opts.BuildImage)
	assert.Equal(t, global.DefaultRuntimeImage, opts.RuntimeImage)
	assert.False(t, opts.EnableDynamicInstall)
}

func TestCompleteNil(t *testing.T) {
	opts, err := Complete(nil, "", known)
	require.NoError(t, err)
	assert.Empty(t, opts.Platform)
	assert.Empty(t, opts.DisabledNames())
	assert.NotNil(t, opts.Properties)
}

func TestCompleteValidation(t *testing.T) {
	version := "3.8"
	empty := ""

	_, err := Complete(&ConfigFile{PlatformVersion: &version, Platform: &empty}, "", known)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "platform_version", validationErr.Field)

	_, err = Complete(&ConfigFile{DisabledPlatforms: []string{"ruby"}}, "", known)
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "disabled_platforms", validationErr.Field)
	assert.Contains(t, err.Error(), `"ruby"`)

	_, err = Complete(&ConfigFile{Properties: map[string]string{" ": "x"}}, "", known)
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "properties", validationErr.Field)
}

func TestCompleteEnvOverrides(t *testing.T) {
	off := false
	root := "/from/config"
	t.Setenv(EnvEnableDynamicInstall, "true")
	t.Setenv(EnvEnableCheckers, "yes")
	t.Setenv(EnvDynamicInstallRoot, "/from/env")
	t.Setenv("DISABLE_PYTHON_BUILD", "1")
	t.Setenv(EnvEnableMultiPlatformBuild, "not-a-bool")

	opts, err := Complete(&ConfigFile{
		EnableDynamicInstall:     &off,
		EnableMultiPlatformBuild: &off,
		DynamicInstallRoot:       &root,
	}, "", known)
	require.NoError(t, err)
	assert.True(t, opts.EnableDynamicInstall)
	assert.True(t, opts.EnableCheckers)
	// unparsable values keep what the file said
	assert.False(t, opts.EnableMultiPlatformBuild)
	assert.Equal(t, "/from/env", opts.DynamicInstallRoot)
	assert.Equal(t, []string{"python"}, opts.DisabledNames())
}

func TestDisableEnvName(t *testing.T) {
	assert.Equal(t, "DISABLE_NODEJS_BUILD", DisableEnvName("nodejs"))
}
