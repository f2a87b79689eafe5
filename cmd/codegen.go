package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/progress"
)

var (
	codegenOut  string
	codegenOnly []string
)

var codegenCmd = &cobra.Command{
	Use:   "codegen <file>",
	Short: "Generate source code for a Markdown specification",
	Long: `Sends a Markdown specification ("-" reads stdin) to the generation service,
then requests generated code for the resulting specification and diagrams and
writes every file under the output directory. --only keeps files matching any
of the given glob patterns (e.g. --only '**/*.py').`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if codegenOut == "" {
			codegenOut = cfg.CodegenDir
		}
		for _, pattern := range codegenOnly {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid --only pattern %q", pattern)
			}
		}

		markdown, err := readSpec(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		client := newBackend(cfg)
		gen, err := client.GenerateDiagrams(ctx, markdown)
		if err != nil {
			return fmt.Errorf("generating diagrams: %w", err)
		}
		files, err := client.GenerateCode(ctx, gen.Spec, gen.Diagrams)
		if err != nil {
			return fmt.Errorf("generating code: %w", err)
		}

		files = filterFiles(files, codegenOnly)
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "No files to write.")
			return nil
		}

		return writeFiles(codegenOut, files, progress.NewReporter())
	},
}

func init() {
	codegenCmd.Flags().StringVarP(&codegenOut, "out", "o", "", "output directory (default from config)")
	codegenCmd.Flags().StringSliceVar(&codegenOnly, "only", nil, "glob patterns of files to keep")
	rootCmd.AddCommand(codegenCmd)
}

// filterFiles keeps files matching any pattern, preserving order. No
// patterns keeps everything.
func filterFiles(files []backend.File, patterns []string) []backend.File {
	if len(patterns) == 0 {
		return files
	}
	var kept []backend.File
	for _, f := range files {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, filepath.ToSlash(f.Name)); ok {
				kept = append(kept, f)
				break
			}
		}
	}
	return kept
}

// writeFiles writes files under dir in order. Names that would land outside
// dir are rejected.
func writeFiles(dir string, files []backend.File, reporter progress.Reporter) (err error) {
	reporter.Begin(dir, len(files))
	defer func() { reporter.Done(err) }()

	for _, f := range files {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("refusing to write %q outside %s", f.Name, dir)
		}
		path := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		reporter.Wrote(f.Name, len(f.Content))
	}
	return nil
}
