// Package client implements the HTTP surface of the intake backend. The
// endpoint contract ships embedded as an OpenAPI document and is validated at
// construction, so a client that builds is a client whose routes exist.
package client

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/wizard"
)

//go:embed contract.yaml
var contractYAML []byte

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx response. Detail carries the server's own message
// when one was provided; it is surfaced to the user verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("client: unexpected status %d", e.Status)
}

// Client talks to the intake backend. It implements the coordinator's remote
// surface and the sample fetcher for photo slots.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	routes     map[string]string
}

// Option configures a client at construction.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport, used by tests and by callers
// that need custom TLS or proxy setup.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New builds a client for the backend at baseURL. The embedded contract is
// loaded and validated here; routes are resolved from it by operation id
// rather than hardcoded paths.
func New(baseURL string, options ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, fmt.Errorf("client: load contract: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("client: validate contract: %w", err)
	}

	routes := make(map[string]string)
	for path, item := range doc.Paths.Map() {
		for _, op := range item.Operations() {
			if op.OperationID != "" {
				routes[op.OperationID] = path
			}
		}
	}

	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: defaultTimeout},
		routes:     routes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) endpoint(operationID string) (string, error) {
	path, ok := c.routes[operationID]
	if !ok {
		return "", fmt.Errorf("client: operation %q not in contract", operationID)
	}
	return c.base.JoinPath(path).String(), nil
}

// GenerateForm posts the incident description and decodes the returned
// questionnaire payload.
func (c *Client) GenerateForm(ctx context.Context, description string) (schema.Payload, error) {
	endpoint, err := c.endpoint("generateForm")
	if err != nil {
		return schema.Payload{}, err
	}

	body, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return schema.Payload{}, fmt.Errorf("client: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return schema.Payload{}, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return schema.Payload{}, err
	}
	return schema.DecodePayload(ctx, data)
}

// GenerateFormWithImage posts the description together with a supporting
// photo as multipart form data.
func (c *Client) GenerateFormWithImage(ctx context.Context, description string, photo photos.Photo) (schema.Payload, error) {
	endpoint, err := c.endpoint("generateFormWithImage")
	if err != nil {
		return schema.Payload{}, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("description", description); err != nil {
		return schema.Payload{}, fmt.Errorf("client: write field: %w", err)
	}
	if err := writePhoto(writer, "image", photo); err != nil {
		return schema.Payload{}, err
	}
	if err := writer.Close(); err != nil {
		return schema.Payload{}, fmt.Errorf("client: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return schema.Payload{}, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return schema.Payload{}, err
	}
	return schema.DecodePayload(ctx, data)
}

// Analyze submits the finished case: scope fields, the description, the
// answer map as a JSON field, and all eight orientation photos. The response
// body is the analysis report, returned as-is for display.
func (c *Client) Analyze(ctx context.Context, scope wizard.Scope, description string, answers map[string]schema.Answer, shots map[photos.Orientation]photos.Photo) (string, error) {
	endpoint, err := c.endpoint("analyzeCase")
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("client: encode answers: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"policyId":     scope.PolicyID,
		"namedInsured": scope.NamedInsured,
		"make":         scope.Make,
		"model":        scope.Model,
		"description":  description,
		"answers":      string(encoded),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", fmt.Errorf("client: write field %s: %w", name, err)
		}
	}
	for _, o := range photos.Orientations() {
		photo, ok := shots[o]
		if !ok {
			return "", fmt.Errorf("client: missing photo for orientation %q", o)
		}
		if err := writePhoto(writer, string(o), photo); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("client: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchSample retrieves the known sample photo for a case and orientation.
func (c *Client) FetchSample(ctx context.Context, caseID string, o photos.Orientation) ([]byte, error) {
	path, ok := c.routes["fetchSample"]
	if !ok {
		return nil, fmt.Errorf("client: operation %q not in contract", "fetchSample")
	}
	path = strings.ReplaceAll(path, "{caseId}", url.PathEscape(caseID))
	path = strings.ReplaceAll(path, "{orientation}", string(o))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	return c.do(req)
}

// do executes the request and returns the body for 2xx responses. For
// anything else it decodes the problem document and returns an APIError
// carrying the server's detail untouched.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var problem struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &problem); err == nil {
			apiErr.Detail = problem.Detail
		}
		return nil, apiErr
	}
	return body, nil
}

func writePhoto(writer *multipart.Writer, field string, photo photos.Photo) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, photo.Name))
	if photo.ContentType != "" {
		header.Set("Content-Type", photo.ContentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("client: create part %s: %w", field, err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return fmt.Errorf("client: write part %s: %w", field, err)
	}
	return nil
}
