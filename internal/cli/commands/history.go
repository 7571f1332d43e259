package commands

import (
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs shown when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Long:  `List the most recent generate and compile runs recorded in the state database.`,
		Example: `  polyglot history
  polyglot history --limit 5 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutProject(cmd)
			if err != nil {
				return err
			}

			ledger, err := openLedger(cc.Cfg, cc.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = ledger.Close() }()

			records, err := ledger.ListRuns(limit)
			if err != nil {
				return err
			}
			return cc.Renderer.RenderHistory(records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Number of runs to show (0 for all)")

	return cmd
}
