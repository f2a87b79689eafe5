// Package backend is the HTTP client for the generation service that parses
// specifications, synthesises diagrams and generates code.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ziadkadry99/specstudio/internal/spec"
)

// Endpoint paths on the generation service.
const (
	PathGenerateDiagrams        = "/api/generate-diagrams"
	PathGenerateSequenceDiagram = "/api/generate-sequence-diagram"
	PathGenerateCode            = "/api/generate-code"
	PathStatus                  = "/config/status"
)

// Client calls the generation service over JSON.
type Client struct {
	baseURL string
	client  *http.Client
	debug   bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithDebug logs each request path and response status.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type diagramsRequest struct {
	Markdown string `json:"markdown"`
}

// GenerateDiagrams submits markdown and returns the diagram bundle together
// with the parsed specification.
func (c *Client) GenerateDiagrams(ctx context.Context, markdown string) (*spec.Generation, error) {
	var gen spec.Generation
	if err := c.post(ctx, PathGenerateDiagrams, diagramsRequest{Markdown: markdown}, &gen); err != nil {
		return nil, err
	}
	return &gen, nil
}

// SequenceRequest carries the context for a scenario's sequence diagram.
type SequenceRequest struct {
	ScenarioID string        `json:"use_case_id"`
	Scenario   spec.Scenario `json:"use_case_data"`
	Spec       *spec.Spec    `json:"parsed_spec"`
	Markdown   string        `json:"markdown"`
}

type sequenceResponse struct {
	Mermaid string `json:"mermaid"`
}

// GenerateSequenceDiagram returns the mermaid source for one scenario. An empty
// string with a nil error means the service produced no diagram.
func (c *Client) GenerateSequenceDiagram(ctx context.Context, req SequenceRequest) (string, error) {
	var resp sequenceResponse
	if err := c.post(ctx, PathGenerateSequenceDiagram, req, &resp); err != nil {
		return "", err
	}
	return resp.Mermaid, nil
}

type codeRequest struct {
	Spec     *spec.Spec     `json:"parsed_spec"`
	Diagrams *spec.Diagrams `json:"diagrams"`
}

// File is one generated source file.
type File struct {
	Name    string
	Content string
}

// GenerateCode returns generated files in the order the service listed them.
func (c *Client) GenerateCode(ctx context.Context, s *spec.Spec, d *spec.Diagrams) ([]File, error) {
	files := orderedmap.New[string, string]()
	if err := c.post(ctx, PathGenerateCode, codeRequest{Spec: s, Diagrams: d}, files); err != nil {
		return nil, err
	}
	out := make([]File, 0, files.Len())
	for pair := files.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, File{Name: pair.Key, Content: pair.Value})
	}
	return out, nil
}

// Status is the service's configuration report.
type Status struct {
	AIEnabled bool   `json:"gemini_api"`
	Model     string `json:"model"`
	DebugMode bool   `json:"debug_mode"`
	LogLevel  string `json:"log_level"`
}

// Status probes the service configuration endpoint.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.do(ctx, http.MethodGet, PathStatus, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshalling %s request: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	if c.debug {
		log.Printf("backend: %s %s -> %d (%d bytes)", method, path, httpResp.StatusCode, len(respBody))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return &StatusError{Path: path, Code: httpResp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
