package cmd

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/hyperbrowserai/hyperagent-go/internal/observability"
	"github.com/hyperbrowserai/hyperagent-go/internal/store"
)

var listLimit int

// listCmd prints summaries of recently captured session artifacts.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently persisted session artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appConfig.Store.Enabled {
			return fmt.Errorf("the artifact store is disabled; set store.enabled and HYPERAGENT_STORE_URL")
		}

		ctx := cmd.Context()
		pool, err := pgxpool.New(ctx, appConfig.Store.URL)
		if err != nil {
			return fmt.Errorf("failed to open artifact database: %w", err)
		}
		defer pool.Close()

		st, err := store.New(ctx, pool, observability.GetLogger())
		if err != nil {
			return err
		}

		records, err := st.ListRecent(ctx, listLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			cmd.Println("No artifacts recorded yet.")
			return nil
		}

		for _, r := range records {
			cmd.Printf("%s  %-36s  %s\n", r.CapturedAt.Format("2006-01-02 15:04:05"), r.SessionID, r.FinalURL)
			if r.Title != "" {
				cmd.Printf("%21s%s\n", "", r.Title)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of artifacts to list")
	rootCmd.AddCommand(listCmd)
}
