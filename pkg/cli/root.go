// Package cli implements the meetctl administrative command line. It operates
// on the database directly and is meant for operators, not teams.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	internaldb "meetreg/internal/db"
)

var version = "dev"

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "meetctl",
		Short:         "Sports-meet registration platform administration",
		Long:          "Administrative command-line interface for the registration platform: migrations, seeding, credentials, and admin tokens.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "meetreg.sqlite", "Path to the SQLite database file")

	rootCmd.AddCommand(newMigrateCmd(&dbPath))
	rootCmd.AddCommand(newSeedCmd(&dbPath))
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newPasswordCmd(&dbPath))
	rootCmd.AddCommand(newCloseWindowsCmd(&dbPath))
	return rootCmd
}

// openWriteDB opens the single-connection write pool. Every CLI command
// writes, so none of them need the read pool.
func openWriteDB(path string) (*sql.DB, error) {
	return internaldb.OpenSQLite(path, "write", 0)
}
