package cli

import (
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"meetreg/internal/db/repository"
	"meetreg/internal/service"
)

func newCloseWindowsCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "close-windows",
		Short: "Close meets whose registration window has passed",
		Long:  "Run the registration-window job once. The server runs the same job on a schedule; this command exists for one-off runs and cron-less deployments.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openWriteDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			job := service.NewRegistrationWindowJob(repository.NewMeetRepo(db), slog.Default())
			if err := job.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration windows reconciled")
			return nil
		},
	}
}
