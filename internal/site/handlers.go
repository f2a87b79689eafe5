package site

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/specstudio/internal/orchestrator"
)

// pageData is the whole-page template input.
type pageData struct {
	orchestrator.Page
	CSS template.CSS
}

func (s *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	o := s.sessions.Get(w, r)
	s.writePage(w, r, o)
}

func (s *Site) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(appScript))
}

func (s *Site) handlePanel(w http.ResponseWriter, r *http.Request) {
	p, err := orchestrator.ParsePanel(chi.URLParam(r, "panel"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	o := s.sessions.Get(w, r)
	if isFragment(r) {
		logErr("navigate", o.Start(r.Context(), p))
	} else {
		logErr("navigate", o.Navigate(r.Context(), p))
	}
	s.respond(w, r, o)
}

// handleAwait answers the script's follow-up to a busy fragment once the
// panel's fetch has finished.
func (s *Site) handleAwait(w http.ResponseWriter, r *http.Request) {
	p, err := orchestrator.ParsePanel(chi.URLParam(r, "panel"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	o := s.sessions.Get(w, r)
	err = o.Await(r.Context(), p)
	if r.Context().Err() != nil {
		return
	}
	logErr("await "+string(p), err)
	s.respond(w, r, o)
}

// handleEditor is the form fallback for the editor channel.
func (s *Site) handleEditor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	o := s.sessions.Get(w, r)
	o.Editor().SetText(r.PostForm.Get("markdown"))
	if isFragment(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Site) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	o := s.sessions.Get(w, r)
	if _, ok := r.PostForm["markdown"]; ok {
		o.Editor().SetText(r.PostForm.Get("markdown"))
	}
	logErr("submit", o.Submit(r.Context()))
	s.respond(w, r, o)
}

func (s *Site) handleScenario(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	o := s.sessions.Get(w, r)
	id := r.PostForm.Get("scenario_id")
	if isFragment(r) {
		o.StartScenario(r.Context(), id)
	} else {
		logErr("select scenario", o.SelectScenario(r.Context(), id))
	}
	s.respond(w, r, o)
}

func (s *Site) handleCode(w http.ResponseWriter, r *http.Request) {
	o := s.sessions.Get(w, r)
	if isFragment(r) {
		o.StartCode(r.Context())
	} else {
		logErr("generate code", o.RegenerateCode(r.Context()))
	}
	s.respond(w, r, o)
}

// respond re-renders the session after an action. Failures are already in
// the state as notices, so the status is always 200. Fragment requests for
// scenario and code panels answer with the busy view; the script follows up
// on /ui/await.
func (s *Site) respond(w http.ResponseWriter, r *http.Request, o *orchestrator.Orchestrator) {
	if !isFragment(r) {
		s.writePage(w, r, o)
		return
	}
	s.execute(w, "workspace", o.RenderPage())
}

func (s *Site) writePage(w http.ResponseWriter, r *http.Request, o *orchestrator.Orchestrator) {
	s.execute(w, "page", pageData{Page: o.RenderPage(), CSS: s.css})
}

func (s *Site) execute(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("site: rendering %s: %v", name, err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func isFragment(r *http.Request) bool {
	return r.Header.Get(FragmentHeader) != ""
}

// logErr logs failures the user already sees as notices. Blank input and
// superseded fetches are routine.
func logErr(action string, err error) {
	if err == nil || errors.Is(err, orchestrator.ErrBlankInput) || errors.Is(err, orchestrator.ErrSuperseded) {
		return
	}
	log.Printf("site: %s: %v", action, err)
}
