// Package compat decides which platforms, at which versions, take part in a
// build.
package compat

import (
	"context"
	"strings"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/util/console"
	"github.com/replicate/buildgen/pkg/version"
)

// Resolver walks an ordered platform registry. Registry order is authoritative:
// the first matching platform is the main one.
type Resolver struct {
	Platforms []platform.Platform
}

func NewResolver(platforms []platform.Platform) *Resolver {
	return &Resolver{Platforms: platforms}
}

// EnabledNames lists the names of enabled platforms in registry order.
func (r *Resolver) EnabledNames() []string {
	var names []string
	for _, p := range r.Platforms {
		if p.Enabled() {
			names = append(names, p.Name())
		}
	}
	return names
}

// Find returns the first platform called name, ignoring case. Disabled platforms
// are returned too.
func (r *Resolver) Find(name string) (platform.Platform, bool) {
	for _, p := range r.Platforms {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

// Resolve returns the main platform first, followed by any additional platforms
// in registry order when multi-platform builds are enabled.
func (r *Resolver) Resolve(ctx context.Context, bc *platform.BuildContext) ([]platform.Resolved, error) {
	if err := bc.Validate(); err != nil {
		return nil, err
	}

	main, err := r.resolveMain(ctx, bc)
	if err != nil {
		return nil, err
	}
	resolved := []platform.Resolved{*main}

	if !bc.EnableMultiPlatformBuild {
		return resolved, nil
	}

	// Platforms are identified by name; a later registration under a name
	// already resolved is ignored.
	seen := map[string]bool{strings.ToLower(main.Name()): true}
	for _, p := range r.Platforms {
		if seen[strings.ToLower(p.Name())] {
			continue
		}
		if !p.Enabled() || !p.EnabledForMultiPlatformBuild() {
			console.Debugf("Skipping %s for multi-platform build", p.Name())
			continue
		}

		detection, err := p.Detect(ctx, bc)
		if err != nil {
			return nil, err
		}
		if detection == nil {
			continue
		}

		requested, _ := bc.Property(platform.VersionProperty(p.Name()))
		if requested == "" {
			requested = detection.Version
		}
		v, err := resolveVersion(p, requested)
		if err != nil {
			return nil, err
		}
		console.Debugf("Detected additional platform %s %s", p.Name(), v)
		seen[strings.ToLower(p.Name())] = true
		resolved = append(resolved, platform.Resolved{Platform: p, Version: v, Detection: detection})
	}

	return resolved, nil
}

func (r *Resolver) resolveMain(ctx context.Context, bc *platform.BuildContext) (*platform.Resolved, error) {
	if bc.PlatformName == "" {
		return r.detectMain(ctx, bc)
	}

	p, ok := r.Find(bc.PlatformName)
	if !ok || !p.Enabled() {
		return nil, &errors.UnsupportedPlatformError{
			Requested: bc.PlatformName,
			Supported: r.EnabledNames(),
		}
	}

	requested := bc.PlatformVersion
	if requested == "" {
		requested, _ = bc.Property(platform.VersionProperty(p.Name()))
	}

	// Only run the detector when it is needed to learn the version.
	var detection *platform.DetectionResult
	if requested == "" {
		var err error
		detection, err = p.Detect(ctx, bc)
		if err != nil {
			return nil, err
		}
		if detection != nil {
			requested = detection.Version
		}
	}

	v, err := resolveVersion(p, requested)
	if err != nil {
		return nil, err
	}
	console.Debugf("Using platform %s %s", p.Name(), v)
	return &platform.Resolved{Platform: p, Version: v, Detection: detection}, nil
}

func (r *Resolver) detectMain(ctx context.Context, bc *platform.BuildContext) (*platform.Resolved, error) {
	for _, p := range r.Platforms {
		if !p.Enabled() {
			continue
		}

		detection, err := p.Detect(ctx, bc)
		if err != nil {
			return nil, err
		}
		if detection == nil {
			continue
		}

		requested, _ := bc.Property(platform.VersionProperty(p.Name()))
		if requested == "" {
			requested = detection.Version
		}
		v, err := resolveVersion(p, requested)
		if err != nil {
			return nil, err
		}
		console.Debugf("Detected platform %s %s", p.Name(), v)
		return &platform.Resolved{Platform: p, Version: v, Detection: detection}, nil
	}

	return nil, &errors.UnableToDetectPlatformError{SourceDir: bc.SourceDir}
}

// resolveVersion maps a requested specifier, possibly empty, onto one of p's
// supported versions.
func resolveVersion(p platform.Platform, requested string) (string, error) {
	requested = platform.Normalize(p, requested)
	supported := p.SupportedVersions()

	v, err := version.Resolve(requested, supported, platform.Normalize(p, p.DefaultVersion()))
	if err != nil {
		return "", &errors.UnsupportedVersionError{
			Platform:  p.Name(),
			Requested: requested,
			Supported: supported,
		}
	}
	return v, nil
}
