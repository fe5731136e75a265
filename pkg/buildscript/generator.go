// Package buildscript assembles the bash script that installs and runs the
// toolchains of the resolved platforms.
package buildscript

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/replicate/buildgen/pkg/checker"
	"github.com/replicate/buildgen/pkg/compat"
	"github.com/replicate/buildgen/pkg/platform"
	"github.com/replicate/buildgen/pkg/util/console"
)

type Generator struct {
	Resolver *compat.Resolver
	// Checkers may be nil.
	Checkers *checker.Runner
	// Console defaults to the global console.
	Console *console.Console
}

func NewGenerator(resolver *compat.Resolver, checkers *checker.Runner) *Generator {
	return &Generator{Resolver: resolver, Checkers: checkers}
}

func (g *Generator) GetCompatiblePlatforms(ctx context.Context, bc *platform.BuildContext) ([]platform.Resolved, error) {
	return g.Resolver.Resolve(ctx, bc)
}

// GetRequiredToolVersions maps each resolved platform name to its version.
func (g *Generator) GetRequiredToolVersions(ctx context.Context, bc *platform.BuildContext) (map[string]string, error) {
	resolved, err := g.Resolver.Resolve(ctx, bc)
	if err != nil {
		return nil, err
	}
	return toolVersions(resolved), nil
}

// GenerateBashScript resolves the platforms, runs the checkers when enabled and
// assembles the script. Checker messages are appended to sink. Nothing is
// returned unless every step succeeds.
func (g *Generator) GenerateBashScript(ctx context.Context, bc *platform.BuildContext, sink *[]checker.Message) (string, error) {
	resolved, err := g.Resolver.Resolve(ctx, bc)
	if err != nil {
		return "", err
	}

	if bc.EnableCheckers {
		g.Checkers.Run(bc.Source, toolVersions(resolved), sink)
	}

	operationID := bc.OperationID
	if operationID == "" {
		operationID = newOperationID(bc)
	}

	g.console().Debugf("Assembling build script for %d platform(s), operation %s", len(resolved), operationID)
	return assemble(ctx, bc, resolved, operationID)
}

// TryGenerateScript reports whether a script could be produced along with the
// reason when it could not.
func (g *Generator) TryGenerateScript(ctx context.Context, bc *platform.BuildContext, sink *[]checker.Message) (string, bool, error) {
	script, err := g.GenerateBashScript(ctx, bc, sink)
	if err != nil {
		g.console().Debugf("Could not generate build script: %v", err)
		return "", false, err
	}
	return script, true, nil
}

func (g *Generator) console() *console.Console {
	if g.Console != nil {
		return g.Console
	}
	return console.ConsoleInstance
}

func toolVersions(resolved []platform.Resolved) map[string]string {
	tools := make(map[string]string, len(resolved))
	for _, r := range resolved {
		tools[r.Name()] = r.Version
	}
	return tools
}

func newOperationID(bc *platform.BuildContext) string {
	// generating a uuid v7 only errors in extreme cases, like system clock issues,
	// resource exhaustion, or entropy exhaustion.
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}

	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}

	hash := sha256.Sum256([]byte(bc.SourceDir + bc.DestinationDir))
	return fmt.Sprintf("op-%x-%d", hash[:8], time.Now().UnixNano())
}
