package orchestrator

import (
	"html"
	"html/template"

	"github.com/ziadkadry99/specstudio/internal/diagrams"
	"github.com/ziadkadry99/specstudio/internal/spec"
)

// Page container ids. The page script runs mermaid on one container at a time.
const (
	ContainerClass        = "class-diagram-container"
	ContainerArchitecture = "architecture-diagram-container"
	ContainerSequence     = "use-case-diagram-container"
	ContainerOverview     = "use-case-overview-container"
)

// NoticeLevel maps onto the page's alert styles.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeDanger  NoticeLevel = "danger"
)

// Notice is an inline message shown in place of, or above, panel content.
type Notice struct {
	Level NoticeLevel
	Text  string
}

func notice(level NoticeLevel, text string) *Notice {
	return &Notice{Level: level, Text: text}
}

// NavItem is one navigation entry.
type NavItem struct {
	Panel    Panel
	Title    string
	Active   bool
	Disabled bool
}

// Page is the whole workbench.
type Page struct {
	Nav    []NavItem
	Active Panel
	Panels []PanelView
}

// PanelView is the display of one panel. Exactly one of the content fields
// is set, matching Panel.
type PanelView struct {
	Panel  Panel
	Title  string
	Active bool
	Notice *Notice

	Editor    *EditorView
	Diagram   *diagrams.Fragment
	Scenarios *ScenarioPanelView
	Code      *CodeView
}

// Pending reports whether the panel is waiting on the service.
func (v PanelView) Pending() bool {
	return (v.Scenarios != nil && v.Scenarios.DiagramBusy) || (v.Code != nil && v.Code.Busy)
}

// EditorView is the editor panel.
type EditorView struct {
	Text    string
	Preview template.HTML
	Busy    bool
	Focus   bool
}

// ScenarioPanelView is the scenario explorer.
type ScenarioPanelView struct {
	Overview *diagrams.Fragment
	Options  []ScenarioOption
	Detail   *ScenarioDetail

	// Diagram is nil while loading, after a failure, or when cleared.
	Diagram       *diagrams.Fragment
	DiagramBusy   bool
	DiagramNotice *Notice
}

// ScenarioOption is one selector entry. The placeholder has an empty ID.
type ScenarioOption struct {
	ID       string
	Label    string
	Selected bool
}

// ScenarioDetail is the textual description of a scenario.
type ScenarioDetail struct {
	ID             string
	Name           string
	Description    string
	Actors         []string
	Preconditions  []string
	Flow           []string
	Postconditions []string
}

// CodeView lists generated files in service order.
type CodeView struct {
	Busy   bool
	Blocks []CodeBlock
}

// CodeBlock is one generated file. Escaped is the HTML-escaped content;
// Highlighted is the syntax-highlighted rendition.
type CodeBlock struct {
	Filename    string
	Language    string
	Escaped     string
	Highlighted template.HTML
}

// RenderPage renders navigation and every panel from the current state.
func (o *Orchestrator) RenderPage() Page {
	st := o.State()
	page := Page{Nav: o.renderNav(st), Active: st.Active}
	for _, p := range Panels {
		page.Panels = append(page.Panels, o.renderPanel(st, p))
	}
	return page
}

// RenderPanel renders a single panel from the current state.
func (o *Orchestrator) RenderPanel(p Panel) PanelView {
	return o.renderPanel(o.State(), p)
}

// RenderNav renders the navigation entries.
func (o *Orchestrator) RenderNav() []NavItem {
	return o.renderNav(o.State())
}

func (o *Orchestrator) renderNav(st State) []NavItem {
	items := make([]NavItem, 0, len(Panels))
	for _, p := range Panels {
		items = append(items, NavItem{
			Panel:    p,
			Title:    p.Title(),
			Active:   p == st.Active,
			Disabled: p != PanelEditor && !st.Loaded(),
		})
	}
	return items
}

func (o *Orchestrator) renderPanel(st State, p Panel) PanelView {
	var v PanelView
	switch p {
	case PanelEditor:
		v = o.renderEditor(st)
	case PanelClass:
		v = o.renderDiagram(st, spec.DiagramClass, ContainerClass, msgNoClass)
	case PanelArchitecture:
		v = o.renderDiagram(st, spec.DiagramArchitecture, ContainerArchitecture, msgNoArchitecture)
	case PanelScenarios:
		v = o.renderScenarios(st)
	case PanelCode:
		v = o.renderCode(st)
	}
	v.Panel = p
	v.Title = p.Title()
	v.Active = p == st.Active
	return v
}

func (o *Orchestrator) renderEditor(st State) PanelView {
	text := o.editor.Text()
	ev := &EditorView{
		Text:  text,
		Busy:  st.Submission.Status == StatusLoading,
		Focus: st.Active == PanelEditor,
	}
	if o.previewer != nil {
		ev.Preview = o.previewer.Preview(text)
	}
	v := PanelView{Editor: ev}
	switch st.Submission.Status {
	case StatusError:
		v.Notice = notice(NoticeDanger, st.Submission.Message)
	case StatusReady:
		v.Notice = notice(NoticeSuccess, st.Submission.Message)
	}
	return v
}

func (o *Orchestrator) renderDiagram(st State, name, container, missing string) PanelView {
	src, ok := st.Diagrams.Get(name)
	if !ok {
		return PanelView{Notice: notice(NoticeWarning, missing)}
	}
	f := o.renderer.RenderDiagram(container, src)
	return PanelView{Diagram: &f}
}

func (o *Orchestrator) renderScenarios(st State) PanelView {
	if st.Spec == nil || len(st.Spec.Scenarios) == 0 {
		return PanelView{
			Notice:    notice(NoticeWarning, msgNoScenarios),
			Scenarios: &ScenarioPanelView{Options: []ScenarioOption{placeholderOption(true)}},
		}
	}

	sv := &ScenarioPanelView{}
	if src, ok := st.Diagrams.Get(spec.DiagramUseCase); ok {
		f := o.renderer.RenderDiagram(ContainerOverview, src)
		sv.Overview = &f
	}
	sv.Options = append(sv.Options, placeholderOption(st.SelectedID == ""))
	for _, sc := range st.Spec.Scenarios {
		sv.Options = append(sv.Options, ScenarioOption{
			ID:       sc.ID,
			Label:    sc.Label(),
			Selected: sc.ID == st.SelectedID,
		})
	}
	v := PanelView{Scenarios: sv}

	if st.Sequence.MissingID != "" {
		v.Notice = notice(NoticeWarning, msgScenarioMissing)
		return v
	}
	sc, ok := st.Spec.Scenario(st.SelectedID)
	if !ok {
		v.Notice = notice(NoticeWarning, msgNoSelection)
		return v
	}
	sv.Detail = scenarioDetail(sc)

	// Sequence state belongs to another scenario until the fetch for this one starts.
	if st.Sequence.ScenarioID != sc.ID {
		return v
	}
	switch st.Sequence.Status {
	case StatusLoading:
		sv.DiagramBusy = true
		sv.DiagramNotice = notice(NoticeInfo, msgLoading)
	case StatusError:
		sv.DiagramNotice = notice(NoticeDanger, st.Sequence.Err)
	case StatusReady:
		if st.Sequence.Source == "" {
			sv.DiagramNotice = notice(NoticeWarning, msgNoSequence)
			break
		}
		f := o.renderer.RenderDiagram(ContainerSequence, st.Sequence.Source)
		sv.Diagram = &f
	}
	return v
}

func placeholderOption(selected bool) ScenarioOption {
	return ScenarioOption{Label: "Select a use case", Selected: selected}
}

func scenarioDetail(sc spec.Scenario) *ScenarioDetail {
	d := &ScenarioDetail{
		ID:             sc.ID,
		Name:           sc.Name,
		Description:    sc.Description,
		Actors:         sc.Actors,
		Preconditions:  sc.Preconditions,
		Postconditions: sc.Postconditions,
	}
	for _, step := range sc.Flow {
		d.Flow = append(d.Flow, step.String())
	}
	return d
}

func (o *Orchestrator) renderCode(st State) PanelView {
	if !st.Loaded() {
		return PanelView{Notice: notice(NoticeWarning, msgNoCodeData)}
	}
	cv := &CodeView{}
	v := PanelView{Code: cv}
	switch st.Code.Status {
	case StatusLoading:
		cv.Busy = true
		v.Notice = notice(NoticeInfo, msgLoading)
	case StatusError:
		v.Notice = notice(NoticeDanger, st.Code.Err)
	case StatusReady:
		for _, f := range st.Code.Files {
			cv.Blocks = append(cv.Blocks, o.codeBlock(f.Name, f.Content))
		}
	}
	return v
}

func (o *Orchestrator) codeBlock(name, content string) CodeBlock {
	b := CodeBlock{Filename: name, Escaped: html.EscapeString(content)}
	if o.highlighter != nil {
		b.Highlighted, b.Language = o.highlighter.Highlight(name, content)
	}
	if b.Highlighted == "" {
		b.Highlighted = template.HTML("<pre><code>" + b.Escaped + "</code></pre>")
	}
	return b
}
