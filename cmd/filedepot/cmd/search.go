package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/filedepot/filedepot/internal/index"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index",
		Long: `Search scans the configured root once and answers the query.

Quoted phrases must appear literally in a file's path (case-insensitive);
unquoted terms are matched with typo tolerance. Results are ranked with the
best match first.`,
		Example: `  filedepot search dragon
  filedepot search '"patterns/" dragon'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts, err := index.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			// One-shot invocation: no periodic rescans.
			opts.RescanInterval = 0

			store, err := index.New(opts)
			if err != nil {
				return err
			}
			if err := store.Start(cmd.Context()); err != nil {
				return err
			}
			defer store.Stop()

			results := store.Search(strings.Join(args, " "))
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	return cmd
}
