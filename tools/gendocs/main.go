// gendocs writes the CLI reference for buildgen as a single markdown file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/replicate/buildgen/pkg/cli"
	"github.com/replicate/buildgen/pkg/util/console"
)

func main() {
	var output string

	rootCmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Generate CLI reference documentation for buildgen",
		Run: func(cmd *cobra.Command, args []string) {
			if err := generateDocs(output); err != nil {
				console.Fatalf("Failed to generate docs: %s", err)
			}
			console.Infof("Generated CLI docs at %s", output)
		},
	}

	rootCmd.Flags().StringVarP(&output, "output", "o", "docs/cli.md", "Output file path")
	if err := rootCmd.Execute(); err != nil {
		console.Fatal(err.Error())
	}
}

func generateDocs(outputPath string) error {
	tmpDir, err := os.MkdirTemp("", "buildgen-cli-docs-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cmd, err := cli.NewRootCommand()
	if err != nil {
		return fmt.Errorf("failed to create root command: %w", err)
	}
	cmd.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(cmd, tmpDir); err != nil {
		return fmt.Errorf("failed to generate markdown: %w", err)
	}

	names, err := filepath.Glob(filepath.Join(tmpDir, "*.md"))
	if err != nil {
		return err
	}
	// buildgen.md sorts before buildgen_*.md, so the root command comes first
	sort.Strings(names)

	var content strings.Builder
	content.WriteString("# CLI reference\n\n")
	content.WriteString("<!-- This file is auto-generated. Do not edit manually. -->\n\n")

	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filepath.Base(name), err)
		}
		content.WriteString(processCommandDoc(string(data)))
		content.WriteString("\n\n")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(outputPath, []byte(strings.TrimRight(content.String(), "\n")+"\n"), 0o644)
}

// processCommandDoc trims a cobra-generated page down to a section of the
// combined reference: command heading in backticks, options as bold text
// so they stay out of the table of contents, no cross links.
func processCommandDoc(content string) string {
	for _, marker := range []string{"### SEE ALSO", "### Options inherited from parent commands"} {
		if idx := strings.Index(content, marker); idx != -1 {
			content = content[:idx]
		}
	}

	var result []string
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "## buildgen"):
			result = append(result, "## `"+strings.TrimPrefix(line, "## ")+"`")
		case line == "### Synopsis":
			continue
		case line == "### Options", line == "### Examples":
			result = append(result, "**"+strings.TrimPrefix(line, "### ")+"**")
		default:
			result = append(result, line)
		}
	}
	return strings.Join(removeConsecutiveBlankLines(result), "\n")
}

func removeConsecutiveBlankLines(lines []string) []string {
	var result []string
	prevBlank := false
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		result = append(result, line)
		prevBlank = blank
	}
	return result
}
