package site

import (
	"bytes"
	"html"
	"html/template"
	"log"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownPreviewer renders the editable specification as sanitised HTML.
type MarkdownPreviewer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownPreviewer creates a previewer whose fenced code blocks use the
// named chroma style. Highlighting emits classes; the page carries the CSS.
func NewMarkdownPreviewer(style string) *MarkdownPreviewer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowStyling()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &MarkdownPreviewer{md: md, policy: policy}
}

// Preview converts markdown to HTML. Raw HTML in the input is dropped by the
// sanitiser. If conversion fails the text is shown preformatted.
func (p *MarkdownPreviewer) Preview(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(markdown), &buf); err != nil {
		log.Printf("site: markdown preview: %v", err)
		return template.HTML("<pre>" + html.EscapeString(markdown) + "</pre>")
	}
	return template.HTML(p.policy.SanitizeBytes(buf.Bytes()))
}
