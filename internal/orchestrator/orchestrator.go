// Package orchestrator drives the workbench: it owns the application state,
// switches panels, submits the editable text to the generation service and
// fetches per-scenario diagrams and generated code on demand.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/diagrams"
	"github.com/ziadkadry99/specstudio/internal/spec"
)

var (
	// ErrBlankInput is returned when the editable text is empty or whitespace.
	ErrBlankInput = errors.New("specification text is blank")
	// ErrUnknownPanel is returned for panel names outside Panels.
	ErrUnknownPanel = errors.New("unknown panel")
	// ErrSuperseded is returned when a newer request for the same panel
	// finished the work; the result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrIncompleteResponse is returned when the service omits the bundle or spec.
	ErrIncompleteResponse = errors.New("incomplete diagram response")
)

// User-facing notices.
const (
	msgBlankInput      = "Please enter a software specification in Markdown format."
	msgProcessed       = "Software specification processed successfully!"
	msgNoClass         = "No class diagram data available. Please process a specification first."
	msgNoArchitecture  = "No architecture diagram data available. Please process a specification first."
	msgNoScenarios     = "No use cases available. Please process a specification first."
	msgNoSelection     = "No use case selected."
	msgScenarioMissing = "Selected use case not found."
	msgNoSequence      = "Failed to generate sequence diagram."
	msgNoCodeData      = "No specification data available. Please process a specification first."
	msgLoading         = "Loading..."
)

// Backend is the generation service.
type Backend interface {
	GenerateDiagrams(ctx context.Context, markdown string) (*spec.Generation, error)
	GenerateSequenceDiagram(ctx context.Context, req backend.SequenceRequest) (string, error)
	GenerateCode(ctx context.Context, s *spec.Spec, d *spec.Diagrams) ([]backend.File, error)
}

// TextSource is the editor surface holding the editable text.
type TextSource interface {
	Text() string
	SetText(text string)
	OnChange(fn func(string)) (cancel func())
}

// Highlighter renders a generated file as highlighted HTML.
type Highlighter interface {
	Highlight(filename, content string) (template.HTML, string)
}

// Previewer renders the editable text as HTML.
type Previewer interface {
	Preview(markdown string) template.HTML
}

// Orchestrator is safe for concurrent use. Network calls never run while the
// state lock is held; each fetch carries a per-panel token and its result is
// applied only if no newer fetch for that panel was started meanwhile.
type Orchestrator struct {
	backend     Backend
	editor      TextSource
	renderer    diagrams.Renderer
	highlighter Highlighter
	previewer   Previewer

	mu      sync.Mutex
	state   State
	tokens  map[Panel]uint64
	pending map[Panel]*fetch
}

// fetch is a background refresh started by Start, StartScenario or StartCode.
type fetch struct {
	done chan struct{}
	err  error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRenderer sets the diagram renderer.
func WithRenderer(r diagrams.Renderer) Option {
	return func(o *Orchestrator) { o.renderer = r }
}

// WithHighlighter sets the code highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(o *Orchestrator) { o.highlighter = h }
}

// WithPreviewer sets the markdown previewer for the editor panel.
func WithPreviewer(p Previewer) Option {
	return func(o *Orchestrator) { o.previewer = p }
}

// New creates an orchestrator on the editor panel with no data loaded.
func New(b Backend, editor TextSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:  b,
		editor:   editor,
		renderer: diagrams.MermaidRenderer{},
		state:    State{Active: PanelEditor},
		tokens:   make(map[Panel]uint64),
		pending:  make(map[Panel]*fetch),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Editor returns the text source.
func (o *Orchestrator) Editor() TextSource { return o.editor }

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// next issues a new token for p. Callers hold o.mu.
func (o *Orchestrator) next(p Panel) uint64 {
	o.tokens[p]++
	return o.tokens[p]
}

// latest reports whether tok is still the newest token for p. Callers hold o.mu.
func (o *Orchestrator) latest(p Panel, tok uint64) bool {
	return o.tokens[p] == tok
}

// Navigate makes p the active panel and runs its refresh: scenario and code
// panels fetch from the service, diagram panels render from memory.
func (o *Orchestrator) Navigate(ctx context.Context, p Panel) error {
	if _, err := ParsePanel(string(p)); err != nil {
		return err
	}

	o.mu.Lock()
	o.state.Active = p
	o.mu.Unlock()

	return o.refresh(ctx, p)
}

// Start is Navigate without waiting for the service: it returns once the
// panel shows its busy state and runs the fetch in the background. Await
// waits for the result.
func (o *Orchestrator) Start(ctx context.Context, p Panel) error {
	if _, err := ParsePanel(string(p)); err != nil {
		return err
	}

	o.mu.Lock()
	o.state.Active = p
	o.mu.Unlock()

	o.launch(ctx, p, o.begin(p))
	return nil
}

// StartScenario is SelectScenario without waiting for the sequence diagram.
func (o *Orchestrator) StartScenario(ctx context.Context, id string) {
	o.launch(ctx, PanelScenarios, o.selectScenario(id))
}

// StartCode is RegenerateCode without waiting for the files.
func (o *Orchestrator) StartCode(ctx context.Context) {
	o.launch(ctx, PanelCode, o.beginCode())
}

// Await blocks until the latest background fetch for p has finished and
// returns its error. It returns nil at once when nothing was started.
func (o *Orchestrator) Await(ctx context.Context, p Panel) error {
	for {
		o.mu.Lock()
		f := o.pending[p]
		o.mu.Unlock()
		if f == nil {
			return nil
		}

		select {
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}

		o.mu.Lock()
		latest := o.pending[p] == f
		o.mu.Unlock()
		if latest {
			return f.err
		}
	}
}

// launch runs a begun fetch in the background. The fetch outlives ctx's
// cancellation: the caller has already returned its busy view.
func (o *Orchestrator) launch(ctx context.Context, p Panel, run func(context.Context) error) {
	if run == nil {
		return
	}
	f := &fetch{done: make(chan struct{})}
	o.mu.Lock()
	o.pending[p] = f
	o.mu.Unlock()

	go func() {
		f.err = run(context.WithoutCancel(ctx))
		close(f.done)
	}()
}

func (o *Orchestrator) refresh(ctx context.Context, p Panel) error {
	if run := o.begin(p); run != nil {
		return run(ctx)
	}
	return nil
}

// begin puts p into its busy state and returns the fetch that completes
// it, or nil when p has nothing to fetch.
func (o *Orchestrator) begin(p Panel) func(context.Context) error {
	switch p {
	case PanelScenarios:
		o.mu.Lock()
		id := o.state.SelectedID
		o.mu.Unlock()
		if id == "" {
			return nil
		}
		return o.beginSequence(id)
	case PanelCode:
		return o.beginCode()
	}
	return nil
}

// Submit sends the editable text to the service and replaces the loaded
// specification and diagrams with the result. On failure the previous data
// is kept as it was.
func (o *Orchestrator) Submit(ctx context.Context) error {
	text := o.editor.Text()
	if strings.TrimSpace(text) == "" {
		o.mu.Lock()
		o.state.Submission = SubmissionState{Status: StatusError, Message: msgBlankInput}
		o.mu.Unlock()
		return ErrBlankInput
	}

	o.mu.Lock()
	tok := o.next(PanelEditor)
	o.state.Submission = SubmissionState{Status: StatusLoading}
	o.mu.Unlock()

	gen, err := o.backend.GenerateDiagrams(ctx, text)
	if err == nil && (gen == nil || gen.Spec == nil || gen.Diagrams == nil) {
		err = ErrIncompleteResponse
	}

	o.mu.Lock()
	if !o.latest(PanelEditor, tok) {
		o.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		o.state.Submission = SubmissionState{
			Status:  StatusError,
			Message: fmt.Sprintf("Error processing the specification: %v", err),
		}
		o.mu.Unlock()
		return fmt.Errorf("generating diagrams: %w", err)
	}

	o.state.Spec = gen.Spec
	o.state.Diagrams = gen.Diagrams
	o.state.Markdown = text
	o.state.SelectedID = gen.Spec.FirstScenarioID()
	o.state.Sequence = SequenceState{}
	o.state.Code = CodeState{}
	// Fetches started for the previous specification must not land.
	o.next(PanelScenarios)
	o.next(PanelCode)
	o.state.Submission = SubmissionState{Status: StatusReady, Message: msgProcessed}
	active := o.state.Active
	o.mu.Unlock()

	if active == PanelScenarios || active == PanelCode {
		if err := o.refresh(ctx, active); err != nil && !errors.Is(err, ErrSuperseded) {
			return err
		}
	}
	return nil
}

// SelectScenario shows the scenario with the given id and fetches its
// sequence diagram. An empty id is the placeholder entry and is ignored. An
// unknown id leaves the selection unchanged and clears the diagram pane.
func (o *Orchestrator) SelectScenario(ctx context.Context, id string) error {
	if run := o.selectScenario(id); run != nil {
		return run(ctx)
	}
	return nil
}

func (o *Orchestrator) selectScenario(id string) func(context.Context) error {
	if id == "" {
		return nil
	}

	o.mu.Lock()
	if _, ok := o.state.Spec.Scenario(id); !ok {
		o.next(PanelScenarios)
		o.state.Sequence = SequenceState{MissingID: id}
		o.mu.Unlock()
		return nil
	}
	o.state.SelectedID = id
	o.mu.Unlock()

	return o.beginSequence(id)
}

// beginSequence marks the sequence pane busy for id and returns the fetch.
func (o *Orchestrator) beginSequence(id string) func(context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	sc, ok := o.state.Spec.Scenario(id)
	if !ok {
		o.state.Sequence = SequenceState{MissingID: id}
		return nil
	}
	tok := o.next(PanelScenarios)
	o.state.Sequence = SequenceState{Status: StatusLoading, ScenarioID: id}
	req := backend.SequenceRequest{
		ScenarioID: id,
		Scenario:   sc,
		Spec:       o.state.Spec,
		Markdown:   o.state.Markdown,
	}

	return func(ctx context.Context) error {
		src, err := o.backend.GenerateSequenceDiagram(ctx, req)

		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.latest(PanelScenarios, tok) {
			return ErrSuperseded
		}
		if err != nil {
			o.state.Sequence = SequenceState{
				Status:     StatusError,
				ScenarioID: id,
				Err:        fmt.Sprintf("Error generating sequence diagram: %v", err),
			}
			return fmt.Errorf("generating sequence diagram for %s: %w", id, err)
		}
		o.state.Sequence = SequenceState{Status: StatusReady, ScenarioID: id, Source: src}
		return nil
	}
}

// RegenerateCode requests generated source files for the loaded
// specification. Without loaded data it does nothing.
func (o *Orchestrator) RegenerateCode(ctx context.Context) error {
	if run := o.beginCode(); run != nil {
		return run(ctx)
	}
	return nil
}

func (o *Orchestrator) beginCode() func(context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Loaded() {
		o.state.Code = CodeState{}
		return nil
	}
	tok := o.next(PanelCode)
	o.state.Code = CodeState{Status: StatusLoading}
	s, d := o.state.Spec, o.state.Diagrams

	return func(ctx context.Context) error {
		files, err := o.backend.GenerateCode(ctx, s, d)

		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.latest(PanelCode, tok) {
			return ErrSuperseded
		}
		if err != nil {
			o.state.Code = CodeState{
				Status: StatusError,
				Err:    fmt.Sprintf("Error generating code: %v", err),
			}
			return fmt.Errorf("generating code: %w", err)
		}
		o.state.Code = CodeState{Status: StatusReady, Files: files}
		return nil
	}
}
