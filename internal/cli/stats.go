package cli

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show object, name, catalog and octree statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := databaseFrom(cmd)
			if err != nil {
				return err
			}
			db.DumpStats(cmd.OutOrStdout())
			return nil
		},
	}
}
