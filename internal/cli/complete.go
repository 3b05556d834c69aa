package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompleteCommand creates the complete command.
func NewCompleteCommand() *cobra.Command {
	var (
		i18n  bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "complete PREFIX",
		Short: "List names starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			db, err := a.database(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.CompletionLimit
			}

			n := 0
			for name := range db.Completion(args[0], i18n) {
				if limit > 0 && n >= limit {
					break
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				n++
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&i18n, "i18n", true, "include localized names")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum completions (0 for no limit; default from config)")
	return cmd
}
