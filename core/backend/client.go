package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "http://localhost:8000"

// Client is a stateless gateway to the conversation backend. Every call is a
// single round trip and is never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds every request. Zero keeps the timeout of the underlying
// http client. It applies regardless of where WithHTTPClient appears, and a
// client passed to WithHTTPClient is never modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.timeout > 0 {
		httpClient := *client.httpClient
		httpClient.Timeout = client.timeout
		client.httpClient = &httpClient
	}
	return client
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) send(ctx context.Context, span trace.Span, op, method, path, contentType string, body io.Reader) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error creating HTTP request: %w", err)})
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	span.SetAttributes(attribute.String("request.url", req.URL.String()))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error sending request: %w", err)})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, recordFailure(span, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("error reading response body: %w", err),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := errorDetail(respBody)
		span.SetAttributes(attribute.String("response.error", detail))
		return nil, nil, recordFailure(span, &Error{Op: op, StatusCode: resp.StatusCode, Detail: detail})
	}

	return respBody, resp.Header, nil
}

func (c *Client) sendJSON(ctx context.Context, span trace.Span, op, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		requestBodyBytes, err := json.Marshal(payload)
		if err != nil {
			return recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error marshalling JSON: %w", err)})
		}
		body = bytes.NewReader(requestBodyBytes)
		contentType = "application/json"
	}

	respBody, _, err := c.send(ctx, span, op, method, path, contentType, body)
	if err != nil {
		return err
	}

	return decode(span, op, respBody, out)
}

func decode(span trace.Span, op string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return recordFailure(span, &Error{
			Op:         op,
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("error unmarshalling response: %w", err),
		})
	}
	return nil
}

func recordFailure(span trace.Span, err *Error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Debug("backend request failed", "op", err.Op, "status_code", err.StatusCode, "error", err)
	return err
}

// errorDetail extracts the message from an {"error": ...} or
// {"detail": ...} body, falling back to the raw text.
func errorDetail(body []byte) string {
	var parsed struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
				return detail
			}
			return string(parsed.Detail)
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func sessionPath(prefix, sessionID string) string {
	return prefix + "/" + url.PathEscape(sessionID)
}
