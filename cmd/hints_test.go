package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperbrowserai/hyperagent-go/internal/browser/provider"
)

func troubleshootingFor(err error) string {
	var buf bytes.Buffer
	printTroubleshooting(&buf, err)
	return buf.String()
}

func TestPrintTroubleshooting(t *testing.T) {
	t.Run("missing endpoint", func(t *testing.T) {
		out := troubleshootingFor(provider.ErrMissingEndpoint)
		assert.Contains(t, out, "No browser endpoint was configured")
		assert.Contains(t, out, "--docker")
	})

	t.Run("missing endpoint survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("startup failed: %w", provider.ErrMissingEndpoint)
		assert.Contains(t, troubleshootingFor(wrapped), "No browser endpoint was configured")
	})

	t.Run("bad scheme", func(t *testing.T) {
		out := troubleshootingFor(&provider.SchemeError{Endpoint: "http://127.0.0.1:9222"})
		assert.Contains(t, out, "DevTools WebSocket URL")
		assert.Contains(t, out, "webSocketDebuggerUrl")
	})

	t.Run("connection failure", func(t *testing.T) {
		connErr := &provider.ConnectError{
			Endpoint: "ws://127.0.0.1:9222",
			Cause:    errors.New("connection refused"),
		}
		out := troubleshootingFor(fmt.Errorf("run failed: %w", connErr))
		assert.Contains(t, out, "--remote-debugging-port")
	})

	t.Run("unknown errors get no hint", func(t *testing.T) {
		assert.Empty(t, troubleshootingFor(errors.New("something else")))
	})
}
