package spec

import (
	"bytes"
	"encoding/json"
)

// Scenario is a single use case of the specification.
type Scenario struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Actors         []string   `json:"actors"`
	Preconditions  []string   `json:"preconditions"`
	Flow           []FlowStep `json:"flow"`
	Postconditions []string   `json:"postconditions"`

	raw json.RawMessage
}

// scenarioAlias strips the custom (un)marshallers.
type scenarioAlias Scenario

func (sc *Scenario) UnmarshalJSON(data []byte) error {
	var a scenarioAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*sc = Scenario(a)
	sc.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON echoes the record the server sent, so use_case_data carries any
// fields this client does not model.
func (sc Scenario) MarshalJSON() ([]byte, error) {
	if len(sc.raw) > 0 {
		return sc.raw, nil
	}
	return json.Marshal(scenarioAlias(sc))
}

// Label is the selector text for the scenario.
func (sc Scenario) Label() string {
	return sc.ID + ": " + sc.Name
}

// FlowStep is one ordered action within a scenario.
type FlowStep struct {
	Actor   string `json:"actor"`
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
}

// String formats the step as "<actor> -> <action>[: <message>]".
func (f FlowStep) String() string {
	s := f.Actor + " -> " + f.Action
	if f.Message != "" {
		s += ": " + f.Message
	}
	return s
}
