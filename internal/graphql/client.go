// Package graphql provides the client for the hosted GraphQL data API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"fintrack/internal/logger"
)

// ErrTransport is returned when the request could not be completed or the
// response was not a usable GraphQL envelope.
var ErrTransport = errors.New("graphql: network response was not ok")

// Error is one entry of a response's errors array.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// ResponseError is returned when the data API answered with a non-empty
// errors array.
type ResponseError struct {
	Operation string
	Errors    []Error
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return fmt.Sprintf("graphql: %s: %s", e.Operation, strings.Join(msgs, "; "))
}

// Client sends operation documents to a single GraphQL endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewClient creates a client for endpoint. A nil httpClient gets one with a
// 30 second timeout.
func NewClient(endpoint, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        logger.Named("graphql"),
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Do executes query with vars and decodes the response's data member into
// out. out may be nil when the caller only needs success or failure.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	op := OperationName(query)
	start := time.Now()

	err := c.do(ctx, op, query, vars, out)
	if err != nil {
		c.log.Warnw("operation failed", "operation", op, "duration", time.Since(start), "error", err)
		return err
	}
	c.log.Debugw("operation completed", "operation", op, "duration", time.Since(start))
	return nil
}

func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s: unexpected status %d", ErrTransport, op, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrTransport, op, err)
	}
	if len(env.Errors) > 0 {
		return &ResponseError{Operation: op, Errors: env.Errors}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return fmt.Errorf("%w: %s: response carried no data", ErrTransport, op)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decoding %s data: %w", ErrTransport, op, err)
	}
	return nil
}

var operationPattern = regexp.MustCompile(`^\s*(?:query|mutation)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// OperationName returns the name declared by a query or mutation document,
// or "anonymous".
func OperationName(doc string) string {
	if m := operationPattern.FindStringSubmatch(doc); m != nil {
		return m[1]
	}
	return "anonymous"
}
