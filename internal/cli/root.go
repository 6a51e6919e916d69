package cli

import (
	"context"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/payroll"
	"pharmacy-hr/internal/profile"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// App holds what the operator commands need. Fields left nil make the
// matching command fail instead of panicking.
type App struct {
	Migrate   func(ctx context.Context) error
	SeedAdmin func(ctx context.Context, email, name, password string) (*profile.Profile, error)
	Payroll   payroll.Service
}

// operator is the identity CLI reads run as. It never maps to a stored profile.
var operator = domain.Actor{ID: uuid.Nil, Role: domain.RoleAdmin}

// NewRootCmd creates the top-level "pharmacyctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pharmacyctl",
		Short:         "Operator tooling for the pharmacy attendance and payroll backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(app),
		newSeedAdminCmd(app),
		newPayrollCmd(app),
	)

	return root
}
