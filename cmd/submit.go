package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/diagrams"
	"github.com/ziadkadry99/specstudio/internal/progress"
	"github.com/ziadkadry99/specstudio/internal/spec"
)

var (
	submitOut     string
	submitUseCase string
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Generate diagrams for a Markdown specification",
	Long: `Sends a Markdown specification ("-" reads stdin) to the generation service
and prints the resulting Mermaid diagrams. With --out the diagrams are written
as .mmd files together with the parsed specification as spec.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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
		if gen.Spec == nil {
			return fmt.Errorf("generating diagrams: %w", spec.ErrMissingSpec)
		}

		renderer := diagrams.MermaidRenderer{SanitizeFlowcharts: cfg.SanitizeFlowcharts}
		sources := map[string]string{}
		for _, name := range gen.Diagrams.Names() {
			src, _ := gen.Diagrams.Get(name)
			sources[name] = renderer.RenderDiagram(name, src).Source
		}
		names := gen.Diagrams.Names()

		if submitUseCase != "" {
			sc, ok := gen.Spec.Scenario(submitUseCase)
			if !ok {
				return fmt.Errorf("use case %q not found", submitUseCase)
			}
			src, err := client.GenerateSequenceDiagram(ctx, backend.SequenceRequest{
				ScenarioID: sc.ID,
				Scenario:   sc,
				Spec:       gen.Spec,
				Markdown:   markdown,
			})
			if err != nil {
				return fmt.Errorf("generating sequence diagram: %w", err)
			}
			if src == "" {
				fmt.Fprintf(os.Stderr, "Warning: no sequence diagram returned for %s\n", sc.ID)
			} else {
				name := "sequence_" + sc.ID
				sources[name] = diagrams.Clean(src)
				names = append(names, name)
			}
		}

		if submitOut == "" {
			for _, name := range names {
				fmt.Printf("%%%% %s\n%s\n\n", name, sources[name])
			}
			return nil
		}

		files := make([]backend.File, 0, len(names)+1)
		for _, name := range names {
			file, err := diagramFile(name)
			if err != nil {
				return err
			}
			files = append(files, backend.File{Name: file, Content: sources[name] + "\n"})
		}
		specJSON, err := json.MarshalIndent(gen.Spec, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding spec: %w", err)
		}
		files = append(files, backend.File{Name: "spec.json", Content: string(specJSON) + "\n"})
		return writeFiles(submitOut, files, progress.NewReporter())
	},
}

func init() {
	submitCmd.Flags().StringVarP(&submitOut, "out", "o", "", "directory to write .mmd files and spec.json to")
	submitCmd.Flags().StringVar(&submitUseCase, "use-case", "", "also generate the sequence diagram of this use case")
	rootCmd.AddCommand(submitCmd)
}

// diagramFile names the .mmd file for a diagram. Diagram and use case names
// come from the service and must stay a single file inside the output dir.
func diagramFile(name string) (string, error) {
	file := name + ".mmd"
	if name == "" || strings.ContainsAny(name, `/\`) || !filepath.IsLocal(file) || filepath.Base(file) != file {
		return "", fmt.Errorf("refusing to write diagram %q: not a plain file name", name)
	}
	return file, nil
}
