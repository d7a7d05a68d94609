package main

import (
	"fmt"
	"strings"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func newLegacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Migrate name-based department references to canonical ids",
	}
	cmd.AddCommand(newLegacyPlanCmd())
	cmd.AddCommand(newLegacyApplyCmd())
	return cmd
}

func newLegacyPlanCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List legacy references and the department each resolves to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), func(_ *config.Config, svc *portssvc.ServiceContainer) error {
				plan, err := svc.Reconciliation.PlanMigration(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return printJSON(out, plan)
				}
				fmt.Fprintf(out, "employees=%d legacy=%d planned=%d unmatched=%d\n",
					plan.Total, plan.Legacy, len(plan.Items), plan.Unmatched)
				for _, it := range plan.Items {
					fmt.Fprintf(out, "  %s: %q -> %s (%s)\n", it.EmployeeID, it.LegacyName, it.DepartmentName, it.DepartmentID)
				}
				if plan.Unmatched > 0 {
					fmt.Fprintf(out, "unmatched: %s\n", strings.Join(plan.UnmatchedIDs, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

func newLegacyApplyCmd() *cobra.Command {
	var createMissing bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Plan and apply the migration in one step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), func(_ *config.Config, svc *portssvc.ServiceContainer) error {
				plan, err := svc.Reconciliation.PlanMigration(cmd.Context())
				if err != nil {
					return err
				}
				res, created, err := svc.Reconciliation.ApplyMigration(cmd.Context(), cliActor, plan, createMissing)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "requested=%d applied=%d skipped=%d missing=%d chunks=%d\n",
					res.Requested, res.Applied, res.Skipped, res.Missing, res.Chunks)
				if len(created) > 0 {
					fmt.Fprintf(out, "created departments: %s\n", strings.Join(created, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&createMissing, "create-missing", false, "create departments for unmatched legacy names")
	return cmd
}
