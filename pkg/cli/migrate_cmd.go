package cli

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	internaldb "meetreg/internal/db"
)

func newMigrateCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openWriteDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := internaldb.RunMigrations(db); err != nil {
				return fmt.Errorf("migrate %s: %w", *dbPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied to %s\n", *dbPath)
			return nil
		},
	}
}
