package cli

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"meetreg/internal/db/repository"
	"meetreg/internal/service"
)

func newPasswordCmd(dbPath *string) *cobra.Command {
	var orgCode string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Set a team's login password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if orgCode == "" {
				return fmt.Errorf("--org-code is required")
			}

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			db, err := openWriteDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			teams := repository.NewTeamRepo(db)
			team, err := teams.GetByOrgCode(cmd.Context(), orgCode)
			if err != nil {
				return err
			}

			auth := service.NewAuthService(teams, nil, 0, slog.Default())
			if err := auth.SetPassword(cmd.Context(), team.ID, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s (%s)\n", team.Name, orgCode)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgCode, "org-code", "", "Org code of the team")
	return cmd
}

// promptPassword reads the password twice without echo and requires both
// entries to match.
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("set-password requires an interactive terminal")
	}

	fmt.Fprint(cmd.OutOrStdout(), "New password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
