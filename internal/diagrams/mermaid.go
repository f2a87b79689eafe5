// Package diagrams prepares mermaid sources returned by the backend for display.
// Drawing happens in the browser; this package produces the container-scoped
// markup that the page script hands to mermaid, plus the raw source pane.
package diagrams

import (
	"html"
	"html/template"
	"strings"
)

// Fragment is one rendered diagram bound to a single page container.
type Fragment struct {
	// Container is the element id the page re-runs mermaid on. Rendering is
	// never global, so diagrams already drawn elsewhere are left alone.
	Container string
	// Source is the cleaned mermaid text, mirrored into the source pane.
	Source string
}

// Markup is the mermaid node placed inside the container.
func (f Fragment) Markup() template.HTML {
	return template.HTML(`<div class="mermaid">` + html.EscapeString(f.Source) + `</div>`)
}

// Renderer turns diagram source into a fragment for one container.
type Renderer interface {
	RenderDiagram(container, source string) Fragment
}

// MermaidRenderer is the default Renderer.
type MermaidRenderer struct {
	// SanitizeFlowcharts runs graph/flowchart sources through SanitizeFlowchart.
	SanitizeFlowcharts bool
}

func (r MermaidRenderer) RenderDiagram(container, source string) Fragment {
	src := Clean(source)
	if r.SanitizeFlowcharts {
		src = SanitizeFlowchart(src)
	}
	return Fragment{Container: container, Source: src}
}

// Clean strips a surrounding ```mermaid fence and outer whitespace.
func Clean(source string) string {
	s := strings.TrimSpace(source)
	if start := strings.Index(s, "```mermaid"); start >= 0 {
		body := s[start+len("```mermaid"):]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body)
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		return strings.TrimSpace(s)
	}
	return s
}

// Kind returns the diagram keyword on the first non-comment line, e.g.
// "classDiagram", "sequenceDiagram" or "graph".
func Kind(source string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") || strings.HasPrefix(line, "```") {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// IsFlowchart reports whether source is a graph/flowchart diagram.
func IsFlowchart(source string) bool {
	k := Kind(source)
	return k == "graph" || k == "flowchart"
}
