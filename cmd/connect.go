package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
	"github.com/hyperbrowserai/hyperagent-go/internal/browser/devtools"
	"github.com/hyperbrowserai/hyperagent-go/internal/browser/provider"
	"github.com/hyperbrowserai/hyperagent-go/internal/observability"
)

var (
	connectDebug   bool
	connectTimeout time.Duration
)

// connectCmd verifies connectivity against a running browser and prints what
// it finds there. It is the CLI equivalent of the provider smoke test.
var connectCmd = &cobra.Command{
	Use:   "connect [endpoint]",
	Short: "Connect to a running browser over the Chrome DevTools Protocol",
	Long: `Connect establishes a CDP connection against an already running browser,
lists its open targets, and disconnects. The endpoint must be a ws:// or
wss:// DevTools WebSocket URL. When omitted, browser.endpoint from the
configuration is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()
		ctx := cmd.Context()

		endpoint := appConfig.Browser.Endpoint
		if len(args) > 0 {
			endpoint = args[0]
		}

		p, err := provider.New(provider.Config{
			Endpoint: endpoint,
			Options:  schemas.ConnectOptions{Timeout: connectTimeout},
			Debug:    connectDebug || appConfig.Browser.Debug,
		}, logger)
		if err != nil {
			return err
		}

		sess, err := p.Start(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := p.Close(ctx); err != nil {
				logger.Warn("Failed to close browser session", zap.Error(err))
			}
		}()

		cmd.Printf("Connected to %s (session %s)\n", endpoint, sess.ID())

		// The HTTP side of the same DevTools interface carries browser
		// version metadata the WebSocket side does not expose.
		if base, err := devtools.HTTPBase(endpoint); err == nil {
			client := devtools.NewClient(logger)
			if eps, err := client.Discover(ctx, base); err == nil {
				cmd.Printf("Browser: %s (protocol %s)\n", eps.Version.Browser, eps.Version.ProtocolVersion)
			}
		}

		pages, err := sess.Pages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list targets: %w", err)
		}
		cmd.Printf("Open targets: %d\n", len(pages))
		for _, page := range pages {
			cmd.Printf("  [%s] %s  %s\n", page.Type, page.Title, page.URL)
		}
		return nil
	},
}

func init() {
	connectCmd.Flags().BoolVar(&connectDebug, "debug", false, "log connection diagnostics")
	connectCmd.Flags().DurationVar(&connectTimeout, "timeout", 30*time.Second, "connection attempt timeout")
	rootCmd.AddCommand(connectCmd)
}
