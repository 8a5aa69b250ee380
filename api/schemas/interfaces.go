package schemas

import (
	"context"
)

// -- Browser Interfaces --

// BrowserSession is the live connection to a remote browser. It is created by
// a provider's Start call and owned by that provider until Close. The methods
// mirror what the agent core needs: navigation, basic input, inspection, and
// artifact collection.
type BrowserSession interface {
	// ID returns the unique identifier assigned to this session.
	ID() string
	// Endpoint returns the WebSocket endpoint the session is connected to.
	Endpoint() string

	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	Evaluate(ctx context.Context, expression string, out any) error

	Title(ctx context.Context) (string, error)
	Location(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	Snapshot(ctx context.Context) (*PageSnapshot, error)

	// NewPage opens an additional page target and returns its target id.
	NewPage(ctx context.Context, url string) (string, error)
	// Pages lists the debuggable targets currently open in the browser.
	Pages(ctx context.Context) ([]PageInfo, error)
	// CollectArtifacts gathers the final state of the session for persistence.
	CollectArtifacts(ctx context.Context) (*SessionArtifacts, error)

	// Close tears down the remote connection. Safe to call more than once.
	Close(ctx context.Context) error
}

// BrowserProvider obtains and relinquishes a browser connection on behalf of
// the agent core. Implementations hold at most one session at a time.
type BrowserProvider interface {
	// Start establishes the connection and returns the resulting session.
	Start(ctx context.Context) (BrowserSession, error)
	// Close releases the current session, if any. No-op otherwise.
	Close(ctx context.Context) error
	// GetSession returns the current session, or nil when none is held.
	// It never fails.
	GetSession() BrowserSession
}

// ArtifactStore persists session artifacts for later inspection.
type ArtifactStore interface {
	SaveArtifacts(ctx context.Context, artifacts *SessionArtifacts) error
}
