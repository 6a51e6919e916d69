package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedAdminCmd(app *App) *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first admin account or promote an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.SeedAdmin == nil {
				return errors.New("seed-admin is not configured")
			}
			p, err := app.SeedAdmin(cmd.Context(), email, name, password)
			if err != nil {
				return fmt.Errorf("seeding admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin ready: %s <%s> (%s)\n", p.Name, p.Email, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
