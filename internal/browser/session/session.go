package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
)

// Session is a live CDP connection to a remote browser, attached to a single
// page target. It implements schemas.BrowserSession.
type Session struct {
	id       string
	endpoint string
	logger   *zap.Logger
	slowMo   time.Duration

	// Lifecycle contexts for the chromedp allocator and browser. These are
	// rooted in context.Background: the session must outlive the context the
	// caller passed to Connect, which only bounds the connection attempt.
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	closeOnce sync.Once
}

var _ schemas.BrowserSession = (*Session)(nil)

// Connect dials the given DevTools WebSocket endpoint and establishes a
// browser context on it. The endpoint is used verbatim; callers are expected
// to have resolved it (see the devtools package). opts.Timeout bounds the
// attempt; cancellation of ctx aborts it.
func Connect(ctx context.Context, endpoint string, opts schemas.ConnectOptions, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()
	log := logger.Named("session").With(zap.String("session_id", sessionID))

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), endpoint, chromedp.NoModifyURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(zap.NewStdLog(log).Printf),
	)

	s := &Session{
		id:          sessionID,
		endpoint:    endpoint,
		logger:      log,
		slowMo:      opts.SlowMo,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      browserCancel,
	}

	// The first Run performs the actual WebSocket handshake. Bound it by the
	// caller's context and, if set, the configured connect timeout.
	attemptCtx, attemptCancel := CombineContext(browserCtx, ctx)
	defer attemptCancel()
	if opts.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		attemptCtx, timeoutCancel = context.WithTimeout(attemptCtx, opts.Timeout)
		defer timeoutCancel()
	}

	if err := chromedp.Run(attemptCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	log.Debug("Session connected", zap.String("endpoint", endpoint))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Endpoint returns the WebSocket endpoint the session was connected to.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// Context exposes the session's chromedp context for advanced callers that
// need to issue raw CDP commands.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close disconnects from the browser. The remote browser process itself is
// left running; only this debugging connection is released. Idempotent.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing session")
		err = chromedp.Cancel(s.ctx)
		s.cancel()
		s.allocCancel()
	})
	return err
}

// run executes chromedp actions on the session's browser context, honoring
// cancellation from the caller's context and the configured slow-motion delay.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, runCancel := CombineContext(s.ctx, ctx)
	defer runCancel()

	if s.slowMo > 0 {
		select {
		case <-time.After(s.slowMo):
		case <-runCtx.Done():
			return runCtx.Err()
		}
	}

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the given URL and waits for the page load to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %q: %w", url, err)
	}
	return nil
}

// Reload reloads the current page.
func (s *Session) Reload(ctx context.Context) error {
	return s.run(ctx, chromedp.Reload())
}

// Click clicks the first visible element matching the CSS selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.Click(selector, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

// Type clears the element matching the selector and types the given text.
func (s *Session) Type(ctx context.Context, selector, text string) error {
	err := s.run(ctx,
		chromedp.WaitVisible(selector),
		chromedp.Clear(selector),
		chromedp.SendKeys(selector, text),
	)
	if err != nil {
		return fmt.Errorf("failed to type into %q: %w", selector, err)
	}
	return nil
}

// Evaluate runs a JavaScript expression in the page and unmarshals the result
// into out. Pass a nil out to discard the result.
func (s *Session) Evaluate(ctx context.Context, expression string, out any) error {
	if err := s.run(ctx, chromedp.Evaluate(expression, out)); err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	return nil
}

// Title returns the current page title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// HTML returns the serialized DOM of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to capture DOM: %w", err)
	}
	return html, nil
}

// Screenshot captures the viewport, or the full scrollable page when fullPage
// is set, as a PNG.
func (s *Session) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(fullPage).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// NewPage opens an additional page target in the connected browser and
// returns its target id. The session itself stays attached to its original
// target; the new page shows up in Pages.
func (s *Session) NewPage(ctx context.Context, url string) (string, error) {
	if url == "" {
		url = "about:blank"
	}
	var id target.ID
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		id, err = target.CreateTarget(url).Do(ctx)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("failed to open page %q: %w", url, err)
	}
	return string(id), nil
}

// Pages lists the debuggable targets currently open in the connected browser.
func (s *Session) Pages(ctx context.Context) ([]schemas.PageInfo, error) {
	listCtx, listCancel := CombineContext(s.ctx, ctx)
	defer listCancel()

	targets, err := chromedp.Targets(listCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list browser targets: %w", err)
	}

	pages := make([]schemas.PageInfo, 0, len(targets))
	for _, t := range targets {
		pages = append(pages, schemas.PageInfo{
			TargetID: string(t.TargetID),
			Type:     t.Type,
			Title:    t.Title,
			URL:      t.URL,
			Attached: t.Attached,
		})
	}
	return pages, nil
}

// CollectArtifacts gathers the final URL, title, DOM, and a screenshot of the
// current page.
func (s *Session) CollectArtifacts(ctx context.Context) (*schemas.SessionArtifacts, error) {
	artifacts := &schemas.SessionArtifacts{
		SessionID:  s.id,
		Endpoint:   s.endpoint,
		CapturedAt: time.Now().UTC(),
	}

	err := s.run(ctx,
		chromedp.Location(&artifacts.FinalURL),
		chromedp.Title(&artifacts.Title),
		chromedp.OuterHTML("html", &artifacts.HTML),
		chromedp.CaptureScreenshot(&artifacts.Screenshot),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to collect session artifacts: %w", err)
	}
	return artifacts, nil
}
