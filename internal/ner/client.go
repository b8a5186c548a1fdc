package ner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/nao1215/redactor/internal/detect"
)

const (
	// DefaultTimeout bounds one recognition round trip.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody is how much of a failed response body is kept for the error.
	maxErrorBody = 512
)

// Client is a detect.Recognizer backed by an HTTP sidecar.
// It is safe for concurrent use.
type Client struct {
	url     string
	timeout time.Duration
	proxy   string
	headers map[string]string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithProxy routes requests through the SOCKS5 proxy at "host:port".
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxy = address
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key == "" {
			return
		}
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the underlying HTTP client. Proxy and header
// options are ignored when it is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client posting to url.
func New(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	c := &Client{
		url:     url,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		transport, err := newTransport(c.proxy)
		if err != nil {
			return nil, err
		}
		var rt http.RoundTripper = transport
		if len(c.headers) > 0 {
			rt = &headerInjectingTransport{base: transport, headers: c.headers}
		}
		c.http = &http.Client{Transport: rt}
	}
	return c, nil
}

// URL returns the sidecar endpoint.
func (c *Client) URL() string {
	return c.url
}

type recognizeRequest struct {
	Text string `json:"text"`
}

type recognizeResponse struct {
	Entities []detect.Entity `json:"entities"`
}

// Recognize sends text to the sidecar and returns the entities it found.
func (c *Client) Recognize(ctx context.Context, text string) ([]detect.Entity, error) {
	body, err := json.Marshal(recognizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("ner: marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ner: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner: post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort for the message
		return nil, fmt.Errorf("%w: %s from %s: %s",
			ErrUnexpectedStatus, resp.Status, c.url, bytes.TrimSpace(snippet))
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.logger.Debug("sidecar responded",
		"url", c.url,
		"entities", len(result.Entities),
		"elapsed", time.Since(start),
	)
	return result.Entities, nil
}
