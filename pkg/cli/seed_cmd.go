package cli

import (
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	internaldb "meetreg/internal/db"
	"meetreg/internal/seed"
)

func newSeedCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <meet-definition.yaml>",
		Short: "Apply a declarative meet definition",
		Long:  "Load a YAML meet definition and reconcile it against the database. Existing rows are matched by natural key and left untouched, so the command is safe to re-run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.Load(args[0])
			if err != nil {
				return err
			}

			db, err := openWriteDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := internaldb.RunMigrations(db); err != nil {
				return fmt.Errorf("migrate %s: %w", *dbPath, err)
			}

			res, err := seed.NewApplier(db, slog.Default()).Apply(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Seed applied: meet_created=%t events=%d groups=%d mappings=%d teams=%d\n",
				res.MeetCreated, res.EventsCreated, res.GroupsCreated, res.MappingsCreated, res.TeamsCreated)
			return nil
		},
	}
}
