package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/history"
	"github.com/alexbrand/apidocs/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded generation runs",
	Long: `List the generation runs recorded in the history database, newest first.

History is enabled by setting history.path in the configuration.

Examples:
  apidocs history
  apidocs history --limit 5
  apidocs history diff`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd)
	},
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show endpoints added or removed by the latest run",
	Long:  `Compare the endpoints of the two most recent runs.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryDiff(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyDiffCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 for no limit)")
}

func requireHistory() (*history.Store, error) {
	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ConfigError("history is disabled; set history.path in the configuration")
	}
	return store, nil
}

func runHistory(cmd *cobra.Command) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context(), historyLimit)
	if err != nil {
		return classify("failed to list runs", err)
	}
	return output.New(GetFormat()).FormatRuns(cmd.OutOrStdout(), runs)
}

func runHistoryDiff(cmd *cobra.Command) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	diff, err := store.Diff(cmd.Context())
	if err != nil {
		return classify("failed to compare runs", err)
	}
	return output.New(GetFormat()).FormatDiff(cmd.OutOrStdout(), diff)
}
