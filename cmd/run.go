package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
	"github.com/hyperbrowserai/hyperagent-go/internal/browser/docker"
	"github.com/hyperbrowserai/hyperagent-go/internal/browser/provider"
	"github.com/hyperbrowserai/hyperagent-go/internal/observability"
	"github.com/hyperbrowserai/hyperagent-go/internal/store"
)

var (
	runURL        string
	runUseDocker  bool
	runScreenshot string
)

// runCmd connects (or bootstraps) a browser, navigates to a page, prints its
// interactive-element snapshot, and collects artifacts.
var runCmd = &cobra.Command{
	Use:   "run [endpoint]",
	Short: "Navigate to a page and capture a snapshot of it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		endpoint := appConfig.Browser.Endpoint
		if len(args) > 0 {
			endpoint = args[0]
		}

		// Optionally stand up a disposable headless Chrome first.
		if runUseDocker || appConfig.Docker.Enabled {
			bootstrap := docker.New(appConfig.Docker, logger)
			dockerEndpoint, err := bootstrap.Start(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := bootstrap.Stop(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("Failed to stop browser container", zap.Error(err))
				}
			}()
			endpoint = dockerEndpoint
		}

		p, err := provider.New(provider.Config{
			Endpoint: endpoint,
			Options:  appConfig.Browser.Options,
			Debug:    appConfig.Browser.Debug,
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

		navCtx := ctx
		if appConfig.Browser.NavigationTimeout > 0 {
			var navCancel context.CancelFunc
			navCtx, navCancel = context.WithTimeout(ctx, appConfig.Browser.NavigationTimeout)
			defer navCancel()
		}
		if err := sess.Navigate(navCtx, runURL); err != nil {
			return err
		}

		snap, err := sess.Snapshot(ctx)
		if err != nil {
			return err
		}
		printSnapshot(cmd, snap)

		artifacts, err := sess.CollectArtifacts(ctx)
		if err != nil {
			return err
		}

		if runScreenshot != "" {
			if err := os.WriteFile(runScreenshot, artifacts.Screenshot, 0o644); err != nil {
				return fmt.Errorf("failed to write screenshot: %w", err)
			}
			cmd.Printf("Screenshot written to %s\n", runScreenshot)
		}

		if appConfig.Store.Enabled {
			if err := persistArtifacts(ctx, artifacts, logger); err != nil {
				return err
			}
			cmd.Printf("Artifacts persisted for session %s\n", artifacts.SessionID)
		}
		return nil
	},
}

func printSnapshot(cmd *cobra.Command, snap *schemas.PageSnapshot) {
	cmd.Printf("%s (%s)\n", snap.Title, snap.URL)
	for _, el := range snap.Elements {
		if el.Href != "" {
			cmd.Printf("  %s %s %q -> %s\n", el.Ref, el.Role, el.Name, el.Href)
			continue
		}
		cmd.Printf("  %s %s %q\n", el.Ref, el.Role, el.Name)
	}
}

func persistArtifacts(ctx context.Context, artifacts *schemas.SessionArtifacts, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, appConfig.Store.URL)
	if err != nil {
		return fmt.Errorf("failed to open artifact database: %w", err)
	}
	defer pool.Close()

	st, err := store.New(ctx, pool, logger)
	if err != nil {
		return err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	return st.SaveArtifacts(ctx, artifacts)
}

func init() {
	runCmd.Flags().StringVar(&runURL, "url", "", "page to navigate to (required)")
	runCmd.Flags().BoolVar(&runUseDocker, "docker", false, "bootstrap a headless Chrome container")
	runCmd.Flags().StringVar(&runScreenshot, "screenshot", "", "write a screenshot to this path")
	_ = runCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(runCmd)
}
