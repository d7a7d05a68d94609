package main

import (
	"fmt"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func newRecountCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recount",
		Short: "Recompute every department member count and repair drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), func(_ *config.Config, svc *portssvc.ServiceContainer) error {
				report, err := svc.Reconciliation.RecomputeAllCounts(cmd.Context(), cliActor)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return printJSON(out, report)
				}
				fmt.Fprintf(out, "departments=%d employees=%d legacy=%d unresolved=%d corrections=%d\n",
					report.Departments, report.Employees, report.Legacy, len(report.Unresolved), len(report.Corrections))
				for _, c := range report.Corrections {
					fmt.Fprintf(out, "  %s (%s): %d -> %d\n", c.Name, c.DepartmentID, c.Stored, c.Actual)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}
