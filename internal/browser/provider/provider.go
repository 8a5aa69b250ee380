// Package provider obtains and relinquishes remote-debugging connections to
// an already running browser on behalf of the agent core. It owns no browser
// process: connecting and disconnecting are its whole job.
package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
	"github.com/hyperbrowserai/hyperagent-go/internal/browser/session"
)

// Config describes a single CDP connection.
type Config struct {
	// Endpoint is the ws:// or wss:// DevTools WebSocket URL. Required.
	Endpoint string
	// Options are passed through to the underlying connect call.
	Options schemas.ConnectOptions
	// Debug enables connection-time diagnostics (existing target counts).
	Debug bool
}

// connectFunc matches session.Connect; injectable for tests.
type connectFunc func(ctx context.Context, endpoint string, opts schemas.ConnectOptions, logger *zap.Logger) (schemas.BrowserSession, error)

// CDPProvider connects to a running browser over the Chrome DevTools
// Protocol. It holds at most one session: Start overwrites, Close releases.
// A CDPProvider is not safe for concurrent use; the agent core drives it from
// a single goroutine.
type CDPProvider struct {
	cfg     Config
	logger  *zap.Logger
	connect connectFunc
	session schemas.BrowserSession
}

var _ schemas.BrowserProvider = (*CDPProvider)(nil)

// New validates the configuration and returns an unconnected provider.
// No I/O happens here; a missing endpoint fails immediately.
func New(cfg Config, logger *zap.Logger) (*CDPProvider, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	return &CDPProvider{
		cfg:    cfg,
		logger: logger.Named("provider"),
		connect: func(ctx context.Context, endpoint string, opts schemas.ConnectOptions, logger *zap.Logger) (schemas.BrowserSession, error) {
			return session.Connect(ctx, endpoint, opts, logger)
		},
	}, nil
}

// Start performs a single connection attempt against the configured endpoint
// and stores the resulting session. There is no retry or backoff at this
// layer; callers decide whether a failed attempt is worth repeating. Calling
// Start again issues a fresh attempt and replaces the stored session.
func (p *CDPProvider) Start(ctx context.Context) (schemas.BrowserSession, error) {
	if !strings.HasPrefix(p.cfg.Endpoint, "ws://") && !strings.HasPrefix(p.cfg.Endpoint, "wss://") {
		return nil, &SchemeError{Endpoint: p.cfg.Endpoint}
	}

	p.logger.Debug("Connecting to CDP endpoint", zap.String("endpoint", p.cfg.Endpoint))

	sess, err := p.connect(ctx, p.cfg.Endpoint, p.cfg.Options, p.logger)
	if err != nil {
		return nil, &ConnectError{Endpoint: p.cfg.Endpoint, Cause: err}
	}

	if p.cfg.Debug {
		if pages, err := sess.Pages(ctx); err == nil {
			p.logger.Info("Connected to browser",
				zap.String("endpoint", p.cfg.Endpoint),
				zap.Int("existing_targets", len(pages)))
		}
	}

	p.session = sess
	return sess, nil
}

// Close releases the current session, if any. Errors from the underlying
// library propagate unchanged. After a successful Close, GetSession reports
// no session.
func (p *CDPProvider) Close(ctx context.Context) error {
	if p.session == nil {
		return nil
	}
	err := p.session.Close(ctx)
	p.session = nil
	return err
}

// GetSession returns the current session handle, or nil when the provider is
// unconnected or has been closed. It never fails.
func (p *CDPProvider) GetSession() schemas.BrowserSession {
	return p.session
}
