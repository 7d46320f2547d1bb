package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultUserAgent mirrors a plain browser token; several result pages refuse
// obvious bot agents outright.
const DefaultUserAgent = "Mozilla/5.0 (compatible; freeresearch/2.0; +https://github.com/hyperifyio/freeresearch)"

const (
	defaultAttempts     = 2
	defaultRetryDelay   = 500 * time.Millisecond
	defaultMaxBodyBytes = 5 << 20
	defaultRedirectHops = 5
)

// Client wraps http.Client and provides timeouts and a bounded retry on transient errors.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Zero means default (2).
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts. Zero means default (500ms).
	RetryDelay time.Duration
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
	// MaxConcurrent limits concurrent in-flight requests per client instance.
	// Zero means unlimited.
	MaxConcurrent int
	// MaxBodyBytes truncates response bodies. Zero means default (5 MiB).
	MaxBodyBytes int64

	limiter     chan struct{}
	limiterOnce sync.Once
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Form is sent url-encoded when Method is POST.
	Form url.Values
}

// Response is the raw payload of a successful call.
type Response struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
}

// Get issues a GET with context, user-agent, and bounded retry for transient errors.
func (c *Client) Get(ctx context.Context, rawURL string) (Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: rawURL})
}

// PostForm submits form as application/x-www-form-urlencoded.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: rawURL, Form: form})
}

// Do performs req, retrying timeouts, connection failures, 429 and 5xx with a
// fixed delay until MaxAttempts is exhausted.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := c.tryOnce(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		log.Debug().Err(err).Str("url", req.URL).Int("attempt", i+1).Msg("transient fetch error; retrying")
		select {
		case <-ctx.Done():
			return Response{}, classify(req.URL, ctx.Err())
		case <-time.After(delay):
		}
	}
	return Response{}, lastErr
}

func (c *Client) tryOnce(ctx context.Context, r Request) (Response, error) {
	c.acquire()
	defer c.release()

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if method == http.MethodPost && r.Form != nil {
		body = strings.NewReader(r.Form.Encode())
	}
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return Response{}, &FetchError{Cause: CauseConnection, URL: r.URL, Err: fmt.Errorf("%w: %v", ErrInvalidURL, err)}
	}
	if !isHTTPScheme(req.URL) {
		return Response{}, &FetchError{Cause: CauseConnection, URL: r.URL, Err: fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, req.URL.Scheme)}
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ua)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return Response{}, classify(r.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return Response{}, &FetchError{Cause: CauseHTTPStatus, Status: resp.StatusCode, URL: r.URL, Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}
	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Response{}, classify(r.URL, fmt.Errorf("read body: %w", err))
	}
	return Response{
		URL:         resp.Request.URL.String(),
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultRedirectHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}
