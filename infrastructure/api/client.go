// Package api is the HTTP client used by the API scenarios
package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"checkout_automation/domain/entities"

	fiber "github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is prepended to every request path
	BaseURL string

	// APIKey is sent as x-api-key when set
	APIKey string

	Timeout time.Duration
}

// Client sends JSON requests to one base URL
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// Response is a completed exchange. Non-2xx statuses are not errors.
type Response struct {
	StatusCode int
	Elapsed    time.Duration
	Body       []byte
}

// NewClient - creates a client for opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q is not absolute", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
	}, nil
}

// BaseURL returns the URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Encode marshals v the way PostJSON sends it
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// PostJSON sends body, already encoded, as a JSON POST to path
func (c *Client) PostJSON(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.do(ctx, fiber.MethodPost, path, body)
}

// Get sends a GET to path
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, fiber.MethodGet, path, nil)
}

func (c *Client) createAgent(ctx context.Context, method, fullURL string, body []byte) (*fiber.Agent, error) {
	var agent *fiber.Agent
	switch method {
	case fiber.MethodGet:
		agent = fiber.Get(fullURL)
	case fiber.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.apiKey != "" {
		agent.Set("x-api-key", c.apiKey)
	}
	if body != nil {
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(body)
	}
	return agent, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	fullURL := c.baseURL + path
	if err := ctx.Err(); err != nil {
		return nil, &entities.NetworkError{Method: method, URL: fullURL, Cause: err}
	}

	agent, err := c.createAgent(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, respBody, errs := agent.Bytes()
	elapsed := time.Since(start)
	if len(errs) > 0 {
		return nil, &entities.NetworkError{Method: method, URL: fullURL, Cause: errs[0]}
	}

	return &Response{
		StatusCode: status,
		Elapsed:    elapsed,
		Body:       respBody,
	}, nil
}

// Field reads a dotted path such as "data.name" from the JSON body. It
// reports false when the body is not JSON or the path is absent.
func (r *Response) Field(path string) (string, bool) {
	keys := make([]interface{}, 0, strings.Count(path, ".")+1)
	for _, k := range strings.Split(path, ".") {
		keys = append(keys, k)
	}
	value := json.Get(r.Body, keys...)
	if value.LastError() != nil || value.ValueType() == jsoniter.InvalidValue {
		return "", false
	}
	return value.ToString(), true
}

// Pretty returns the body indented for attachments; a non-JSON body is
// returned as is
func (r *Response) Pretty() []byte {
	return Indent(r.Body)
}

// Indent re-encodes raw JSON with indentation
func Indent(raw []byte) []byte {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return raw
	}
	return out
}
