package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filedepot/filedepot/internal/index"
)

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every indexed file",
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

			files := store.GetAll()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}

			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d  %s\n",
					f.ID, f.Path, f.Size, f.MIMEType)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d files\n", len(files))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
