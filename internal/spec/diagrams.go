package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Well-known diagram names in a bundle.
const (
	DiagramClass        = "class"
	DiagramArchitecture = "architecture"
	DiagramUseCase      = "use_case"
)

// parsedSpecKey is the response field holding the Structured Specification.
const parsedSpecKey = "parsed_spec"

// ErrMissingSpec is returned when a generation response has no parsed_spec.
var ErrMissingSpec = errors.New("response has no parsed_spec")

// Diagrams is the Diagram Bundle: named diagram sources generated together
// with a Structured Specification.
type Diagrams struct {
	sources map[string]string
}

// NewDiagrams builds a bundle from named sources.
func NewDiagrams(sources map[string]string) *Diagrams {
	d := &Diagrams{sources: make(map[string]string, len(sources))}
	for k, v := range sources {
		d.sources[k] = v
	}
	return d
}

// Get returns the named diagram source. Empty sources count as absent.
func (d *Diagrams) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	src, ok := d.sources[name]
	if !ok || src == "" {
		return "", false
	}
	return src, true
}

// Names lists the bundle's diagram names in sorted order.
func (d *Diagrams) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.sources))
	for k := range d.sources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (d *Diagrams) MarshalJSON() ([]byte, error) {
	if d == nil || d.sources == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.sources)
}

func (d *Diagrams) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	d.sources = m
	return nil
}

// Generation is the decoded response of the diagram-generation endpoint.
type Generation struct {
	Diagrams *Diagrams
	Spec     *Spec
}

// UnmarshalJSON splits the flat response into the bundle (every string-valued
// field) and the parsed specification.
func (g *Generation) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding diagram response: %w", err)
	}

	rawSpec, ok := fields[parsedSpecKey]
	if !ok {
		return ErrMissingSpec
	}
	s, err := Parse(rawSpec)
	if err != nil {
		return err
	}

	sources := make(map[string]string, len(fields))
	for name, raw := range fields {
		if name == parsedSpecKey {
			continue
		}
		var src string
		if err := json.Unmarshal(raw, &src); err != nil {
			// Non-string entries are not diagram sources.
			continue
		}
		sources[name] = src
	}

	g.Spec = s
	g.Diagrams = &Diagrams{sources: sources}
	return nil
}
