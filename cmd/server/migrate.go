package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDatabase(opts.cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()

			log.Info().Str("driver", opts.cfg.Database.Driver).Msg("Database schema is up to date")
			return nil
		},
	}
}
