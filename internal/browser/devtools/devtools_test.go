package devtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const versionBody = `{
	"Browser": "HeadlessChrome/131.0.6778.85",
	"Protocol-Version": "1.3",
	"webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/browser/abc-123"
}`

const targetsBody = `[
	{"id": "t1", "type": "page", "title": "New Tab", "url": "about:blank",
	 "webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/page/t1"}
]`

func newDevToolsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/json/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(versionBody))
	})
	mux.HandleFunc("/json/list", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(targetsBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestVersion(t *testing.T) {
	srv := newDevToolsServer(t)
	c := NewClient(zap.NewNop())

	info, err := c.Version(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "HeadlessChrome/131.0.6778.85", info.Browser)
	assert.Equal(t, "1.3", info.ProtocolVersion)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc-123", info.WebSocketDebuggerURL)
}

func TestTargets(t *testing.T) {
	srv := newDevToolsServer(t)
	c := NewClient(zap.NewNop())

	targets, err := c.Targets(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "t1", targets[0].ID)
	assert.Equal(t, "page", targets[0].Type)
}

func TestDiscover(t *testing.T) {
	srv := newDevToolsServer(t)
	c := NewClient(zap.NewNop())

	eps, err := c.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "1.3", eps.Version.ProtocolVersion)
	require.Len(t, eps.Targets, 1)
}

func TestVersionNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not yet", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(zap.NewNop())

	_, err := c.Version(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestWaitReadyRecoversFromSlowStart(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(versionBody))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(zap.NewNop())

	info, err := c.WaitReady(context.Background(), srv.URL, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "1.3", info.ProtocolVersion)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestWaitReadyTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "never ready", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(zap.NewNop())

	_, err := c.WaitReady(context.Background(), srv.URL, 500*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not become ready")
}

func TestHTTPBase(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
		wantErr  bool
	}{
		{endpoint: "ws://127.0.0.1:9222/devtools/browser/abc", want: "http://127.0.0.1:9222"},
		{endpoint: "wss://chrome.example.com/devtools/browser/abc", want: "https://chrome.example.com"},
		{endpoint: "ws://127.0.0.1:9222", want: "http://127.0.0.1:9222"},
		{endpoint: "http://127.0.0.1:9222", wantErr: true},
		{endpoint: "127.0.0.1:9222", wantErr: true},
	}
	for _, tt := range tests {
		base, err := HTTPBase(tt.endpoint)
		if tt.wantErr {
			assert.Error(t, err, tt.endpoint)
			continue
		}
		require.NoError(t, err, tt.endpoint)
		assert.Equal(t, tt.want, base)
	}
}

func TestRewriteHost(t *testing.T) {
	got := RewriteHost("ws://localhost:9222/devtools/browser/abc-123", "127.0.0.1:9333")
	assert.Equal(t, "ws://127.0.0.1:9333/devtools/browser/abc-123", got)

	got = RewriteHost("wss://localhost:9222/devtools/browser/abc-123", "chrome.internal:443")
	assert.Equal(t, "wss://chrome.internal:443/devtools/browser/abc-123", got)

	// URLs without a devtools path are passed through untouched.
	plain := "ws://localhost:9222"
	assert.Equal(t, plain, RewriteHost(plain, "127.0.0.1:9333"))
}
