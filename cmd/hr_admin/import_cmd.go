package main

import (
	"fmt"
	"os"
	"strings"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var opts portssvc.ImportOptions

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import employees from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withServices(cmd.Context(), func(_ *config.Config, svc *portssvc.ServiceContainer) error {
				report, err := svc.Transfer.ImportEmployees(cmd.Context(), cliActor, f, opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "rows=%d imported=%d rejected=%d dry_run=%t\n",
					report.Rows, report.Imported, len(report.Rejected), report.DryRun)
				if len(report.CreatedDepartments) > 0 {
					fmt.Fprintf(out, "created departments: %s\n", strings.Join(report.CreatedDepartments, ", "))
				}
				for _, r := range report.Rejected {
					fmt.Fprintf(out, "  line %d: %s\n", r.Line, strings.Join(r.Errors, "; "))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.CreateMissing, "create-missing", false, "create departments that do not exist")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "validate every row without writing")
	return cmd
}
