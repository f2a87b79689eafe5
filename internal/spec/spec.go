// Package spec holds the server-produced specification model. The client never
// builds or edits these values; it decodes what it needs for display and sends
// the original JSON back to the backend unchanged.
package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Spec is the Structured Specification returned under "parsed_spec".
type Spec struct {
	Title       string
	Description string
	Scenarios   []Scenario

	raw json.RawMessage
}

// specFields is the subset of the parsed specification the client reads.
type specFields struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UseCases    []Scenario `json:"use_cases"`
}

// Parse decodes a Structured Specification from raw JSON.
func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UnmarshalJSON keeps the raw document so it can be echoed back verbatim.
func (s *Spec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("parsed specification is null")
	}
	var f specFields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("decoding parsed specification: %w", err)
	}
	s.Title = f.Title
	s.Description = f.Description
	s.Scenarios = f.UseCases
	s.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON returns the document exactly as the server produced it.
func (s *Spec) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(specFields{
		Title:       s.Title,
		Description: s.Description,
		UseCases:    s.Scenarios,
	})
}

// Scenario returns the scenario with the given identifier.
func (s *Spec) Scenario(id string) (Scenario, bool) {
	if s == nil {
		return Scenario{}, false
	}
	for _, sc := range s.Scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scenario{}, false
}

// FirstScenarioID returns the identifier of the first scenario in list order,
// or "" when the specification has none.
func (s *Spec) FirstScenarioID() string {
	if s == nil || len(s.Scenarios) == 0 {
		return ""
	}
	return s.Scenarios[0].ID
}
