// Package devtools talks to the HTTP side of a browser's remote-debugging
// interface (/json/version, /json/list) to discover WebSocket endpoints and
// wait for a freshly launched browser to become reachable.
package devtools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// VersionInfo mirrors the /json/version response.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	V8Version            string `json:"V8-Version"`
	WebKitVersion        string `json:"WebKit-Version"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// TargetInfo mirrors one entry of the /json/list response.
type TargetInfo struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Endpoints is the combined result of a Discover call.
type Endpoints struct {
	Version VersionInfo
	Targets []TargetInfo
}

// Client queries a browser's DevTools HTTP interface. Requests are rate
// limited so that readiness polling stays polite towards remote dev proxies.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a discovery client.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		logger:     logger.Named("devtools"),
	}
}

// Version fetches /json/version from the DevTools HTTP interface rooted at
// base (an http:// or https:// URL).
func (c *Client) Version(ctx context.Context, base string) (*VersionInfo, error) {
	var info VersionInfo
	if err := c.getJSON(ctx, strings.TrimSuffix(base, "/")+"/json/version", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Targets fetches the list of debuggable targets from /json/list.
func (c *Client) Targets(ctx context.Context, base string) ([]TargetInfo, error) {
	var targets []TargetInfo
	if err := c.getJSON(ctx, strings.TrimSuffix(base, "/")+"/json/list", &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// Discover fetches version info and the target list concurrently.
func (c *Client) Discover(ctx context.Context, base string) (*Endpoints, error) {
	var eps Endpoints

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.Version(gctx, base)
		if err != nil {
			return err
		}
		eps.Version = *v
		return nil
	})
	g.Go(func() error {
		targets, err := c.Targets(gctx, base)
		if err != nil {
			return err
		}
		eps.Targets = targets
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &eps, nil
}

// WaitReady polls /json/version with exponential backoff until the browser
// answers or the timeout elapses. Used after bootstrapping a container, where
// Chrome takes a moment to bind its debugging port.
func (c *Client) WaitReady(ctx context.Context, base string, timeout time.Duration) (*VersionInfo, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = timeout

	var info *VersionInfo
	operation := func() error {
		v, err := c.Version(ctx, base)
		if err != nil {
			c.logger.Debug("DevTools endpoint not ready yet", zap.Error(err))
			return err
		}
		info = v
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("devtools endpoint %s did not become ready within %s: %w", base, timeout, err)
	}
	return info, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("devtools request to %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read devtools response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode devtools response from %s: %w", url, err)
	}
	return nil
}

// HTTPBase converts a ws:// or wss:// endpoint into the http(s):// base URL
// of the same DevTools interface, dropping any path component.
func HTTPBase(endpoint string) (string, error) {
	var base string
	switch {
	case strings.HasPrefix(endpoint, "ws://"):
		base = "http://" + strings.TrimPrefix(endpoint, "ws://")
	case strings.HasPrefix(endpoint, "wss://"):
		base = "https://" + strings.TrimPrefix(endpoint, "wss://")
	default:
		return "", fmt.Errorf("endpoint %q is not a ws:// or wss:// URL", endpoint)
	}

	// Keep scheme://host[:port] only.
	rest := base[strings.Index(base, "://")+3:]
	if i := strings.Index(rest, "/"); i >= 0 {
		base = base[:strings.Index(base, "://")+3] + rest[:i]
	}
	return base, nil
}

// RewriteHost replaces the host of a browser-reported WebSocket URL with the
// given host:port. Chrome inside a container reports its debugger URL as
// localhost with the in-container port, which is unreachable from outside.
func RewriteHost(wsURL, hostPort string) string {
	const marker = "/devtools/"
	i := strings.Index(wsURL, marker)
	if i < 0 {
		return wsURL
	}
	scheme := "ws://"
	if strings.HasPrefix(wsURL, "wss://") {
		scheme = "wss://"
	}
	return scheme + hostPort + wsURL[i:]
}
