// Package site serves the browser workbench: the page shell, panel fragments,
// form endpoints and the live editor channel. Every browser session gets its
// own orchestrator.
package site

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/specstudio/internal/diagrams"
	"github.com/ziadkadry99/specstudio/internal/editor"
	"github.com/ziadkadry99/specstudio/internal/orchestrator"
)

// FragmentHeader marks requests from the page script; they receive the
// workspace fragment instead of the whole page.
const FragmentHeader = "X-Specstudio-Fragment"

// Options configures a Site.
type Options struct {
	Backend            orchestrator.Backend
	MaxSessions        int
	HighlightStyle     string
	SanitizeFlowcharts bool
	// AllowAllOrigins accepts editor websocket connections from any origin.
	AllowAllOrigins bool
}

// Site is the workbench UI.
type Site struct {
	sessions *Sessions
	tmpl     *template.Template
	css      template.CSS
	upgrader websocket.Upgrader
}

// New builds the UI around the given backend.
func New(opts Options) (*Site, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("site: backend is required")
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 256
	}

	hl := NewChromaHighlighter(opts.HighlightStyle)
	css, err := hl.CSS()
	if err != nil {
		return nil, fmt.Errorf("writing highlight css: %w", err)
	}
	pv := NewMarkdownPreviewer(opts.HighlightStyle)
	renderer := diagrams.MermaidRenderer{SanitizeFlowcharts: opts.SanitizeFlowcharts}

	sessions, err := NewSessions(opts.MaxSessions, func() *orchestrator.Orchestrator {
		return orchestrator.New(opts.Backend, editor.NewWithTemplate(),
			orchestrator.WithRenderer(renderer),
			orchestrator.WithHighlighter(hl),
			orchestrator.WithPreviewer(pv),
		)
	})
	if err != nil {
		return nil, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Site{sessions: sessions, tmpl: tmpl, css: css}
	if opts.AllowAllOrigins {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return s, nil
}

// Sessions returns the session store.
func (s *Site) Sessions() *Sessions { return s.sessions }

// RegisterRoutes mounts all UI routes onto the given router.
func (s *Site) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/static/app.js", s.handleScript)
	r.Route("/ui", func(r chi.Router) {
		r.Get("/panels/{panel}", s.handlePanel)
		r.Get("/await/{panel}", s.handleAwait)
		r.Post("/editor", s.handleEditor)
		r.Post("/submit", s.handleSubmit)
		r.Post("/scenario", s.handleScenario)
		r.Post("/code", s.handleCode)
	})
	r.Get("/ws/editor", s.handleEditorSocket)
}
