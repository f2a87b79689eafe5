package orchestrator

import (
	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/spec"
)

// State is everything the workbench shows. Spec and Diagrams are replaced
// together; SelectedID is "" or names a scenario of Spec.
type State struct {
	Active Panel

	Spec     *spec.Spec
	Diagrams *spec.Diagrams

	// Markdown is the text that produced Spec.
	Markdown   string
	SelectedID string

	Submission SubmissionState
	Sequence   SequenceState
	Code       CodeState
}

// Loaded reports whether a specification has been generated.
func (s State) Loaded() bool {
	return s.Spec != nil && s.Diagrams != nil
}

// SubmissionState tracks the diagram-generation call.
type SubmissionState struct {
	Status Status

	// Message is the user-facing error or success text.
	Message string
}

// SequenceState tracks the selected scenario's sequence diagram.
type SequenceState struct {
	Status     Status
	ScenarioID string
	Source     string
	Err        string

	// MissingID is set when the last selection named an unknown scenario.
	MissingID string
}

// CodeState tracks generated source files.
type CodeState struct {
	Status Status
	Files  []backend.File
	Err    string
}

func (s State) clone() State {
	c := s
	if s.Code.Files != nil {
		c.Code.Files = append([]backend.File(nil), s.Code.Files...)
	}
	return c
}
