// internal/wordpress/client.go

// Package wordpress is a minimal client for the WordPress XML-RPC API.
package wordpress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"docpub/internal/models"

	"github.com/kolo/xmlrpc"
)

const (
	defaultTimeout = 30 * time.Second
	maxReplySize   = 8 << 20
)

// Client calls one XML-RPC endpoint with one set of credentials.
type Client struct {
	endpoint string
	username string
	secret   string
	blogID   int
	http     *http.Client
	logger   *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithBlogID(id int) Option {
	return func(c *Client) { c.blogID = id }
}

func New(endpoint, username, secret string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		username: username,
		secret:   secret,
		http:     &http.Client{Timeout: defaultTimeout},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call invokes method with args and decodes the reply into reply, which must
// be a pointer (or nil to discard it).
func (c *Client) Call(ctx context.Context, method string, reply any, args ...any) error {
	body, err := xmlrpc.EncodeMethodCall(method, args...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Kind: KindProtocol, Err: err}
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("User-Agent", "docpub")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Kind: transportKind(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return &TransportError{Kind: transportKind(err), Err: err}
	}
	c.logger.Debug("xml-rpc call",
		"method", method,
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"bytes", len(data),
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Kind: KindProtocol, Err: fmt.Errorf("unexpected HTTP status %s", resp.Status)}
	}

	return decodeReply(xmlrpc.Response(data), reply)
}

func decodeReply(r xmlrpc.Response, reply any) error {
	if bytes.Contains(r, []byte("<fault>")) {
		fault := &FaultError{}
		if err := r.Unmarshal(fault); err != nil {
			return fmt.Errorf("%w: fault: %v", ErrMalformedResponse, err)
		}
		return fault
	}
	if !bytes.Contains(r, []byte("<methodResponse")) {
		return fmt.Errorf("%w: no methodResponse element", ErrMalformedResponse)
	}
	if reply == nil {
		return nil
	}
	if err := r.Unmarshal(reply); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Profile is the subset of wp.getProfile used to confirm an identity.
type Profile struct {
	UserID      string `xmlrpc:"user_id"`
	Username    string `xmlrpc:"username"`
	DisplayName string `xmlrpc:"display_name"`
	Email       string `xmlrpc:"email"`
}

// GetProfile fetches the authenticated user's profile. A 403 fault means the
// credentials were rejected.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.Call(ctx, "wp.getProfile", &p, c.blogID, c.username, c.secret); err != nil {
		return nil, err
	}
	return &p, nil
}

type postFields struct {
	Type    string `xmlrpc:"post_type"`
	Status  string `xmlrpc:"post_status"`
	Title   string `xmlrpc:"post_title"`
	Content string `xmlrpc:"post_content"`
}

// NewPost creates content and returns the id the site assigned to it.
func (c *Client) NewPost(ctx context.Context, content models.Content) (string, error) {
	fields := postFields{
		Type:    string(content.Kind),
		Status:  content.Status,
		Title:   content.Title,
		Content: content.Body,
	}

	var id any
	if err := c.Call(ctx, "wp.newPost", &id, c.blogID, c.username, c.secret, fields); err != nil {
		return "", err
	}
	switch v := id.(type) {
	case string:
		return v, nil
	case int64:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("%w: unexpected post id %T", ErrMalformedResponse, id)
}
