package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"pharmacy-hr/internal/payroll"

	"github.com/spf13/cobra"
)

func newPayrollCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Inspect payroll over a trailing window",
	}

	cmd.AddCommand(
		newPayrollSummaryCmd(app),
		newPayrollExportCmd(app),
	)
	return cmd
}

func newPayrollSummaryCmd(app *App) *cobra.Command {
	var (
		userID  string
		days    int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print one employee's approved hours and pay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Payroll == nil {
				return errors.New("payroll is not configured")
			}
			s, err := app.Payroll.Summary(cmd.Context(), operator, userID, days)
			if err != nil {
				return fmt.Errorf("computing summary: %w", err)
			}
			return printSummary(cmd, s, verbose)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Profile ID")
	cmd.Flags().IntVar(&days, "days", 0, fmt.Sprintf("Window in days, 1-%d (default from config)", payroll.MaxDays))
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also list each approved shift")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printSummary(cmd *cobra.Command, s payroll.SummaryResponse, verbose bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", s.Name, s.Email)
	fmt.Fprintf(out, "Period:  %s to %s (%d days)\n", s.From, s.To, s.Days)
	fmt.Fprintf(out, "Worked:  %s (%.2f h)\n", s.WorkedDisplay, s.TotalHours)
	fmt.Fprintf(out, "Gross:   %s\n", s.GrossDisplay)
	fmt.Fprintf(out, "Net:     %s\n", s.NetDisplay)

	if !verbose || len(s.Lines) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTART\tEND\tBREAK\tNET\tNOTE")
	for _, l := range s.Lines {
		note, net := "", payroll.FormatDuration(l.NetMinutes)
		if !l.Included {
			note = "excluded: " + l.Excluded
		}
		if l.Excluded == payroll.ExcludedInvalidTime {
			net = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dm\t%s\t%s\n",
			l.WorkDate, l.StartTime, l.EndTime, l.BreakMinutes, net, note)
	}
	return w.Flush()
}

func newPayrollExportCmd(app *App) *cobra.Command {
	var (
		days int
		out  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the payroll spreadsheet for all active employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Payroll == nil {
				return errors.New("payroll is not configured")
			}
			file, err := app.Payroll.Export(cmd.Context(), operator, days)
			if err != nil {
				return fmt.Errorf("exporting payroll: %w", err)
			}
			if out == "" {
				out = file.FileName
			}
			if err := os.WriteFile(out, file.Content, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(file.Content))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Window in days (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: server file name)")

	return cmd
}
