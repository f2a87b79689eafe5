package site

import (
	"bytes"
	"html"
	"html/template"
	"log"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ChromaHighlighter highlights generated files, picking the lexer from the
// filename.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter uses the named chroma style, or chroma's fallback
// style when the name is unknown.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	return &ChromaHighlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(4)),
	}
}

// Highlight returns the highlighted HTML and the lexer name. Files with no
// matching lexer are rendered as plain text.
func (h *ChromaHighlighter) Highlight(filename, content string) (template.HTML, string) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	lang := lexer.Config().Name

	it, err := lexer.Tokenise(nil, content)
	if err != nil {
		log.Printf("site: tokenising %s: %v", filename, err)
		return plain(content), lang
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		log.Printf("site: formatting %s: %v", filename, err)
		return plain(content), lang
	}
	return template.HTML(buf.String()), lang
}

// CSS returns the stylesheet for the highlighter's classes. The markdown
// preview uses the same class names.
func (h *ChromaHighlighter) CSS() (template.CSS, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", err
	}
	return template.CSS(buf.String()), nil
}

func plain(content string) template.HTML {
	return template.HTML("<pre><code>" + html.EscapeString(content) + "</code></pre>")
}
