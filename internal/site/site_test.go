package site

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/orchestrator"
)

const shopResponse = `{
  "class": "classDiagram\n  class User",
  "architecture": "graph TD\n  Frontend --> Backend",
  "use_case": "graph LR\n  Visitor --> UC1",
  "parsed_spec": {
    "title": "Shop",
    "use_cases": [
      {"id": "UC1", "name": "Register User", "actors": ["Visitor"], "flow": [{"actor": "Visitor", "action": "System"}]},
      {"id": "UC2", "name": "Purchase Product", "actors": ["User"]}
    ]
  }
}`

// generationService fakes the backend endpoints and records submitted text.
// While hold is set, sequence and code requests wait for it to close.
type generationService struct {
	mu        sync.Mutex
	markdown  []string
	scenarios []string
	hold      chan struct{}
}

func (g *generationService) wait() {
	g.mu.Lock()
	hold := g.hold
	g.mu.Unlock()
	if hold != nil {
		<-hold
	}
}

// block holds sequence and code requests until the returned func is called.
func (g *generationService) block(t *testing.T) (release func()) {
	t.Helper()
	hold := make(chan struct{})
	g.mu.Lock()
	g.hold = hold
	g.mu.Unlock()
	var once sync.Once
	release = func() { once.Do(func() { close(hold) }) }
	t.Cleanup(release)
	return release
}

func (g *generationService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-diagrams", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Markdown string `json:"markdown"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		g.mu.Lock()
		g.markdown = append(g.markdown, body.Markdown)
		g.mu.Unlock()
		io.WriteString(w, shopResponse)
	})
	mux.HandleFunc("/api/generate-sequence-diagram", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID string `json:"use_case_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		g.mu.Lock()
		g.scenarios = append(g.scenarios, body.ID)
		g.mu.Unlock()
		g.wait()
		io.WriteString(w, `{"mermaid": "sequenceDiagram\n  Visitor->>System: `+body.ID+`"}`)
	})
	mux.HandleFunc("/api/generate-code", func(w http.ResponseWriter, r *http.Request) {
		g.wait()
		io.WriteString(w, `{"main.py": "print('<hi>')", "README.md": "# Shop"}`)
	})
	return mux
}

func (g *generationService) submitted() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.markdown...)
}

func newTestSite(t *testing.T, maxSessions int) (*httptest.Server, *generationService, *Site) {
	t.Helper()
	gs := &generationService{}
	backendSrv := httptest.NewServer(gs.handler())
	t.Cleanup(backendSrv.Close)

	s, err := New(Options{
		Backend:        backend.New(backendSrv.URL),
		MaxSessions:    maxSessions,
		HighlightStyle: "github",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, gs, s
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func do(t *testing.T, c *http.Client, method, target string, form url.Values) (int, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		t.Fatal(err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set(FragmentHeader, "1")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestIndexStartsSession(t *testing.T) {
	srv, _, s := newTestSite(t, 8)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie")
	}
	page := string(body)
	for _, want := range []string{"<!DOCTYPE html>", `id="markdown-input"`, "Process Specification", `aria-disabled="true"`} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if s.Sessions().Len() != 1 {
		t.Errorf("sessions = %d, want 1", s.Sessions().Len())
	}
}

func TestSubmitThenNavigate(t *testing.T) {
	srv, gs, _ := newTestSite(t, 8)
	c := newClient(t)

	code, body := do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	if code != http.StatusOK {
		t.Fatalf("submit status = %d", code)
	}
	if strings.Contains(body, "<!DOCTYPE") {
		t.Error("fragment request returned whole page")
	}
	if !strings.Contains(body, "Software specification processed successfully!") {
		t.Errorf("missing success notice in %s", body)
	}
	if strings.Contains(body, `aria-disabled="true"`) {
		t.Error("navigation still locked after successful submission")
	}
	if got := gs.submitted(); len(got) != 1 || got[0] != "# Shop" {
		t.Errorf("submitted = %q, want [# Shop]", got)
	}

	_, body = do(t, c, http.MethodGet, srv.URL+"/ui/panels/class-diagram", nil)
	if !strings.Contains(body, `id="class-diagram-container"`) || !strings.Contains(body, "class User") {
		t.Errorf("class panel not rendered: %s", body)
	}
	if !strings.Contains(body, `id="panel-class-diagram" class="panel">`) {
		t.Error("class panel should be the visible panel")
	}
}

func TestBlankSubmitShowsNotice(t *testing.T) {
	srv, gs, _ := newTestSite(t, 8)
	c := newClient(t)

	_, body := do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"   "}})
	if !strings.Contains(body, "Please enter a software specification in Markdown format.") {
		t.Error("missing blank input notice")
	}
	if n := len(gs.submitted()); n != 0 {
		t.Errorf("backend called %d times, want 0", n)
	}
}

func TestPanelsBeforeSubmission(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)

	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/panels/architecture-diagram", nil)
	if !strings.Contains(body, "No architecture diagram data available.") {
		t.Errorf("missing no-data notice: %s", body)
	}
}

func TestUnknownPanel(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)

	code, _ := do(t, c, http.MethodGet, srv.URL+"/ui/panels/settings", nil)
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestScenarioSelection(t *testing.T) {
	srv, gs, _ := newTestSite(t, 8)
	c := newClient(t)

	do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/panels/scenarios", nil)
	if !strings.Contains(body, "UC1: Register User") || !strings.Contains(body, "Select a use case") {
		t.Errorf("selector not rendered: %s", body)
	}
	_, body = do(t, c, http.MethodGet, srv.URL+"/ui/await/scenarios", nil)
	if !strings.Contains(body, `id="use-case-diagram-container"`) {
		t.Error("sequence diagram for default selection not rendered")
	}

	do(t, c, http.MethodPost, srv.URL+"/ui/scenario", url.Values{"scenario_id": {"UC2"}})
	_, body = do(t, c, http.MethodGet, srv.URL+"/ui/await/scenarios", nil)
	if !strings.Contains(body, "Visitor-&gt;&gt;System: UC2") {
		t.Errorf("sequence for UC2 not rendered: %s", body)
	}
	if !strings.Contains(body, `<option value="UC2" selected>`) {
		t.Error("UC2 should be selected")
	}

	gs.mu.Lock()
	got := append([]string(nil), gs.scenarios...)
	gs.mu.Unlock()
	if len(got) != 2 || got[0] != "UC1" || got[1] != "UC2" {
		t.Errorf("sequence requests = %v, want [UC1 UC2]", got)
	}

	_, body = do(t, c, http.MethodPost, srv.URL+"/ui/scenario", url.Values{"scenario_id": {"UC9"}})
	if !strings.Contains(body, "Selected use case not found.") {
		t.Error("missing not-found notice")
	}
}

func TestCodePanel(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)

	do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	do(t, c, http.MethodGet, srv.URL+"/ui/panels/code", nil)
	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/await/code", nil)

	main := strings.Index(body, "main.py")
	readme := strings.Index(body, "README.md")
	if main < 0 || readme < 0 || main > readme {
		t.Errorf("files missing or out of order: main=%d readme=%d", main, readme)
	}
	if strings.Contains(body, "<hi>") {
		t.Error("generated content not escaped")
	}
	if !strings.Contains(body, "Python") {
		t.Error("expected python lexer label")
	}
}

func TestScenarioPanelAnswersBeforeSequence(t *testing.T) {
	srv, gs, _ := newTestSite(t, 8)
	c := newClient(t)
	c.Timeout = 2 * time.Second

	do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	release := gs.block(t)

	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/panels/scenarios", nil)
	for _, want := range []string{`data-pending="scenarios"`, `aria-busy="true"`, "Loading...", "<h3>UC1: Register User</h3>"} {
		if !strings.Contains(body, want) {
			t.Errorf("busy fragment missing %q", want)
		}
	}
	if strings.Contains(body, `id="use-case-diagram-container"`) {
		t.Error("diagram rendered before the service answered")
	}

	release()
	_, body = do(t, c, http.MethodGet, srv.URL+"/ui/await/scenarios", nil)
	if !strings.Contains(body, "Visitor-&gt;&gt;System: UC1") {
		t.Errorf("sequence not rendered after await: %s", body)
	}
	if strings.Contains(body, "data-pending") {
		t.Error("panel still pending after await")
	}
}

func TestReselectionReplacesDetailsAtOnce(t *testing.T) {
	srv, gs, _ := newTestSite(t, 8)
	c := newClient(t)
	c.Timeout = 2 * time.Second

	do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	do(t, c, http.MethodGet, srv.URL+"/ui/panels/scenarios", nil)
	do(t, c, http.MethodGet, srv.URL+"/ui/await/scenarios", nil)

	release := gs.block(t)
	_, body := do(t, c, http.MethodPost, srv.URL+"/ui/scenario", url.Values{"scenario_id": {"UC2"}})
	if !strings.Contains(body, "<h3>UC2: Purchase Product</h3>") {
		t.Error("details for the new selection missing")
	}
	if strings.Contains(body, "<h3>UC1: Register User</h3>") || strings.Contains(body, "System: UC1") {
		t.Error("previous scenario still shown")
	}
	if !strings.Contains(body, "Loading...") {
		t.Error("missing loading notice")
	}

	release()
	_, body = do(t, c, http.MethodGet, srv.URL+"/ui/await/scenarios", nil)
	if !strings.Contains(body, "Visitor-&gt;&gt;System: UC2") {
		t.Errorf("sequence for UC2 not rendered: %s", body)
	}
}

func TestCodePanelAnswersBeforeFiles(t *testing.T) {
	srv, gs, _ := newTestSite(t, 8)
	c := newClient(t)
	c.Timeout = 2 * time.Second

	do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	release := gs.block(t)

	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/panels/code", nil)
	for _, want := range []string{`data-pending="code"`, "Loading...", "disabled>Regenerate Code"} {
		if !strings.Contains(body, want) {
			t.Errorf("busy fragment missing %q", want)
		}
	}

	release()
	_, body = do(t, c, http.MethodGet, srv.URL+"/ui/await/code", nil)
	if !strings.Contains(body, "main.py") {
		t.Errorf("files not rendered after await: %s", body)
	}
}

func TestWholePageNavigationWaits(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)

	do(t, c, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	resp, err := c.Get(srv.URL + "/ui/panels/scenarios")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Visitor-&gt;&gt;System: UC1") {
		t.Error("whole page should carry the fetched sequence")
	}
}

func TestEditorFormFallback(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/ui/editor", strings.NewReader("markdown=%23+Notes"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}

	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/panels/editor", nil)
	if !strings.Contains(body, "# Notes</textarea>") {
		t.Errorf("editor text not stored: %s", body)
	}
}

func TestEditorSocket(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)
	do(t, c, http.MethodGet, srv.URL+"/", nil)

	u, _ := url.Parse(srv.URL)
	header := http.Header{}
	for _, ck := range c.Jar.Cookies(u) {
		header.Add("Cookie", ck.String())
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/editor"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(editorMessage{Type: "text", Text: "# Live"}); err != nil {
		t.Fatal(err)
	}
	var msg editorMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "preview" || !strings.Contains(msg.HTML, "<h1") {
		t.Errorf("got %+v, want preview with heading", msg)
	}

	if err := conn.WriteJSON(editorMessage{Type: "bogus"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "error" {
		t.Errorf("type = %q, want error", msg.Type)
	}

	// The same session sees the pushed text.
	_, body := do(t, c, http.MethodGet, srv.URL+"/ui/panels/editor", nil)
	if !strings.Contains(body, "# Live</textarea>") {
		t.Error("websocket text not visible to the session")
	}
}

func TestFormEditPushesPreview(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	c := newClient(t)
	do(t, c, http.MethodGet, srv.URL+"/", nil)

	u, _ := url.Parse(srv.URL)
	header := http.Header{}
	for _, ck := range c.Jar.Cookies(u) {
		header.Add("Cookie", ck.String())
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/editor"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	code, _ := do(t, c, http.MethodPost, srv.URL+"/ui/editor", url.Values{"markdown": {"# From Form"}})
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg editorMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("no preview pushed: %v", err)
	}
	if msg.Type != "preview" || !strings.Contains(msg.HTML, "From Form") {
		t.Errorf("got %+v, want preview of the form text", msg)
	}
}

func TestSessionsIsolated(t *testing.T) {
	srv, _, _ := newTestSite(t, 8)
	a, b := newClient(t), newClient(t)

	do(t, a, http.MethodPost, srv.URL+"/ui/submit", url.Values{"markdown": {"# Shop"}})
	_, body := do(t, b, http.MethodGet, srv.URL+"/ui/panels/class-diagram", nil)
	if !strings.Contains(body, "No class diagram data available.") {
		t.Error("second session saw the first session's data")
	}
}

func TestSessionEviction(t *testing.T) {
	calls := 0
	s, err := NewSessions(1, func() *orchestrator.Orchestrator {
		calls++
		return orchestrator.New(nil, nil)
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	first := s.Get(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if got := s.Get(httptest.NewRecorder(), req); got != first {
		t.Error("cookie did not resolve to its session")
	}

	s.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	if got := s.Get(rec, req); got == first {
		t.Error("evicted session was returned")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected a fresh cookie for the evicted session")
	}
	if calls != 3 {
		t.Errorf("factory calls = %d, want 3", calls)
	}
}
