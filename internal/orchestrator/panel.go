package orchestrator

import "fmt"

// Panel names one mutually exclusive view of the workbench.
type Panel string

const (
	PanelEditor       Panel = "editor"
	PanelClass        Panel = "class-diagram"
	PanelArchitecture Panel = "architecture-diagram"
	PanelScenarios    Panel = "scenarios"
	PanelCode         Panel = "code"
)

// Panels lists every panel in navigation order.
var Panels = []Panel{PanelEditor, PanelClass, PanelArchitecture, PanelScenarios, PanelCode}

var panelTitles = map[Panel]string{
	PanelEditor:       "Software Spec",
	PanelClass:        "Class Diagram",
	PanelArchitecture: "Architecture",
	PanelScenarios:    "Use Cases",
	PanelCode:         "Code",
}

// Title is the navigation label.
func (p Panel) Title() string {
	if t, ok := panelTitles[p]; ok {
		return t
	}
	return string(p)
}

// ParsePanel validates a panel name.
func ParsePanel(name string) (Panel, error) {
	p := Panel(name)
	if _, ok := panelTitles[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}
	return p, nil
}

// Status is the lifecycle of data fetched for a panel.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "empty"
	}
}
