package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/filedepot/filedepot/internal/index"
)

func newTreeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the indexed files as a directory tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts, err := index.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			opts.RescanInterval = 0

			store, err := index.New(opts)
			if err != nil {
				return err
			}
			if err := store.Start(cmd.Context()); err != nil {
				return err
			}
			defer store.Stop()

			root := store.DirectoryTree()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(root)
			}

			printTree(cmd.OutOrStdout(), root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
