package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/infra/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users and leads tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Database.Driver == "memory" {
			return eris.New("migrate needs a postgres database driver")
		}

		db, err := openDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			return eris.Wrap(err, "migrate")
		}

		zap.L().Info("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
