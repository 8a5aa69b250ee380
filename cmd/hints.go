package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/hyperbrowserai/hyperagent-go/internal/browser/provider"
)

// printTroubleshooting writes a short, error-specific hint block. Errors are
// classified with errors.Is/As against the provider's typed errors, never by
// message matching.
func printTroubleshooting(w io.Writer, err error) {
	switch {
	case errors.Is(err, provider.ErrMissingEndpoint):
		fmt.Fprintln(w, "\nNo browser endpoint was configured. Pass one as an argument,")
		fmt.Fprintln(w, "set browser.endpoint in the config file, or use --docker to")
		fmt.Fprintln(w, "bootstrap a local headless Chrome container.")

	case isSchemeError(err):
		fmt.Fprintln(w, "\nThe endpoint must be a DevTools WebSocket URL, e.g.")
		fmt.Fprintln(w, "  ws://127.0.0.1:9222/devtools/browser/<id>")
		fmt.Fprintln(w, "HTTP URLs are not accepted; fetch /json/version from the browser")
		fmt.Fprintln(w, "to obtain the webSocketDebuggerUrl.")

	case isConnectError(err):
		fmt.Fprintln(w, "\nThe browser did not accept the connection. Check that:")
		fmt.Fprintln(w, "  - Chrome is running with --remote-debugging-port (and --remote-debugging-address if remote)")
		fmt.Fprintln(w, "  - the host and port are reachable from this machine")
		fmt.Fprintln(w, "  - for wss:// endpoints, the TLS certificate is valid")
	}
}

func isSchemeError(err error) bool {
	var se *provider.SchemeError
	return errors.As(err, &se)
}

func isConnectError(err error) bool {
	var ce *provider.ConnectError
	return errors.As(err, &ce)
}
