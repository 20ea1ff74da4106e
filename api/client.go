// Package api implements the Verdict reporting API clients: the v1
// triggering/query surface authenticated through the query string, and the v2
// status-push surface authenticated with a bearer token. Triggering and query
// calls surface classified errors; every status push is fire-and-forget.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the production Verdict API endpoint.
const DefaultBaseURL = "https://api.verdicthq.com"

// Fixed path prefixes per resource kind.
const (
	epCases    = "/cases/api/case"
	epSuites   = "/suites/api/suite"
	epMonitors = "/monitors/api/monitor"
	epRuns     = "/runs/api/run"
	epResults  = "/results/api/results"
	epProjects = "/projects/api/project"
)

const tracerName = "github.com/verdicthq/verdict-go/api"

type authMode int

const (
	// authQueryKey places the credential in the query string (v1) and adds a
	// random cache-buster to GET requests.
	authQueryKey authMode = iota
	// authBearer sends the credential in the Authorization header (v2).
	authBearer
)

// restClient is the HTTP core shared by all API clients.
type restClient struct {
	baseURL string
	token   string
	mode    authMode
	client  *http.Client
	log     log.Logger
	tracer  trace.Tracer
	rnd     func() int64
}

// Option configures a client.
type Option func(*restClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *restClient) {
		c.client = hc
	}
}

// WithLogger replaces the client logger.
func WithLogger(l log.Logger) Option {
	return func(c *restClient) {
		c.log = l
	}
}

func newRestClient(baseURL, token string, mode authMode, opts ...Option) *restClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &restClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		mode:    mode,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.New("module", "api"),
		tracer:  otel.Tracer(tracerName),
		rnd: func() int64 {
			return rand.Int63n(1_000_000_000_000)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// makeURL builds the request URL. Query-string auth appends apiKey, plus a
// random rnd cache-buster on GETs so intermediaries never serve stale status.
func (c *restClient) makeURL(path, method string) string {
	u := c.baseURL + path
	if c.mode == authQueryKey {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "apiKey=" + url.QueryEscape(c.token)
		if method == http.MethodGet {
			u += fmt.Sprintf("&rnd=%d", c.rnd())
		}
	}
	return u
}

func (c *restClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("verdict.api %s %s", method, path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.makeURL(path, method), body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.mode == authBearer {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("REQ", "method", method, "path", path)
	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("request failed: %w", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.log.Debug("RES", "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

func (c *restClient) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "application/json")
}

func (c *restClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, body, "application/json")
}

// postMultipart uploads a single file as multipart/form-data under the
// "file" field.
func (c *restClient) postMultipart(ctx context.Context, path, fileName string, content []byte) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write multipart content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType())
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// emptyJSON reports whether a 2xx payload carries no usable document.
func emptyJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
