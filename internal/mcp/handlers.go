package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/diagrams"
	"github.com/ziadkadry99/specstudio/internal/spec"
)

// generate runs the diagram call every tool starts from.
func (s *Server) generate(ctx context.Context, request mcp.CallToolRequest) (*spec.Generation, *mcp.CallToolResult) {
	markdown, err := request.RequireString("markdown")
	if err != nil || strings.TrimSpace(markdown) == "" {
		return nil, mcp.NewToolResultError("missing required parameter: markdown")
	}
	gen, err := s.backend.GenerateDiagrams(ctx, markdown)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("generating diagrams failed: %v", err))
	}
	if gen == nil || gen.Spec == nil || gen.Diagrams == nil {
		return nil, mcp.NewToolResultError("the service returned no specification")
	}
	return gen, nil
}

// handleGenerateDiagrams returns every diagram, or the one requested.
func (s *Server) handleGenerateDiagrams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gen, errResult := s.generate(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	names := gen.Diagrams.Names()
	if only := request.GetString("diagram", ""); only != "" {
		if _, ok := gen.Diagrams.Get(only); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no %s diagram in the response", only)), nil
		}
		names = []string{only}
	}

	var sb strings.Builder
	for _, name := range names {
		src, _ := gen.Diagrams.Get(name)
		writeDiagram(&sb, name, src)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListUseCases lists use case ids, names and actors.
func (s *Server) handleListUseCases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gen, errResult := s.generate(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	if len(gen.Spec.Scenarios) == 0 {
		return mcp.NewToolResultText("No use cases found in the specification."), nil
	}

	var sb strings.Builder
	for _, sc := range gen.Spec.Scenarios {
		fmt.Fprintf(&sb, "- %s", sc.Label())
		if len(sc.Actors) > 0 {
			fmt.Fprintf(&sb, " (actors: %s)", strings.Join(sc.Actors, ", "))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGenerateSequence generates the sequence diagram of one use case.
func (s *Server) handleGenerateSequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("use_case_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: use_case_id"), nil
	}
	gen, errResult := s.generate(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	sc, ok := gen.Spec.Scenario(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("use case %q not found", id)), nil
	}
	src, err := s.backend.GenerateSequenceDiagram(ctx, backend.SequenceRequest{
		ScenarioID: id,
		Scenario:   sc,
		Spec:       gen.Spec,
		Markdown:   request.GetString("markdown", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generating sequence diagram failed: %v", err)), nil
	}
	if src == "" {
		return mcp.NewToolResultError("the service returned no sequence diagram"), nil
	}

	var sb strings.Builder
	writeDiagram(&sb, sc.Label(), src)
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGenerateCode returns generated files in service order.
func (s *Server) handleGenerateCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gen, errResult := s.generate(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	files, err := s.backend.GenerateCode(ctx, gen.Spec, gen.Diagrams)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generating code failed: %v", err)), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText("The service generated no files."), nil
	}

	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "### %s\n\n```%s\n%s\n```\n\n", f.Name, fence(f.Name), strings.TrimRight(f.Content, "\n"))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func writeDiagram(sb *strings.Builder, title, src string) {
	fmt.Fprintf(sb, "## %s\n\n```mermaid\n%s\n```\n\n", title, diagrams.Clean(src))
}

// fence returns the code fence language for a filename.
func fence(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
