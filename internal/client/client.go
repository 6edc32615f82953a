// Package client is a typed HTTP client for the tracker API.
package client

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

	"golang.org/x/time/rate"

	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/logging"
	"github.com/trackly/tracker/internal/session"
)

const (
	DefaultBaseURL = "http://localhost:8080/api/v1"
	DefaultTimeout = 15 * time.Second
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64
	Session           *session.Session
	Logger            *logging.Logger
	HTTPClient        *http.Client
}

// Client talks to the tracker API on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	session    *session.Session
	log        *logging.Logger
	metrics    *Metrics
}

func New(opt Options) *Client {
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultBaseURL
	}
	if opt.Timeout == 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.Session == nil {
		opt.Session = session.InMemory("")
	}
	if opt.Logger == nil {
		opt.Logger = logging.Discard()
	}
	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opt.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opt.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opt.RequestsPerSecond), max(1, int(opt.RequestsPerSecond)))
	}

	return &Client{
		baseURL:    strings.TrimRight(opt.BaseURL, "/"),
		httpClient: hc,
		limiter:    limiter,
		session:    opt.Session,
		log:        opt.Logger,
		metrics:    &Metrics{},
	}
}

func (c *Client) Session() *session.Session { return c.session }
func (c *Client) Metrics() *Metrics         { return c.metrics }
func (c *Client) BaseURL() string           { return c.baseURL }

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// public calls do not need a session.
	public bool
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	op := cl.method + " " + cl.path
	start := time.Now()
	defer func() {
		c.metrics.record(time.Since(start), err)
		if err != nil {
			c.log.LogWarnf("api_call", "call=%q error=%v", op, err)
		} else {
			c.log.LogInfof("api_call", "call=%q latency=%s", op, time.Since(start))
		}
	}()

	token := c.session.Token()
	if !cl.public && token == "" {
		return &AuthError{Message: "not logged in"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	var reader io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, body)
	}
	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var env apierror.Body
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		msg = env.Error.Message
	} else if msg == "" {
		msg = http.StatusText(status)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &AuthError{Status: status, Code: env.Error.Code, Message: msg}
	}
	return &APIError{Status: status, Code: env.Error.Code, Message: msg, Details: env.Error.Details}
}

// Health pings GET /health on the API host.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	root := c.baseURL
	if i := strings.Index(root, "/api/"); i >= 0 {
		root = root[:i]
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/health", nil)
	if err != nil {
		return nil, &TransportError{Op: "GET /health", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET /health", Err: err}
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Op: "GET /health", Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return out, &APIError{Status: resp.StatusCode, Message: fmt.Sprint(out["status"])}
	}
	return out, nil
}
