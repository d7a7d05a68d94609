package main

import (
	"errors"
	"fmt"
	"strings"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/SscSPs/hr_admin_app/internal/utils"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var req dto.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create --email <email> --name <name> --password <password>",
		Short: "Create a local operator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" {
				return errors.New("--email and --name are required")
			}
			if err := utils.ValidatePassword(req.Password); err != nil {
				return fmt.Errorf("--password: %w", err)
			}
			return withServices(cmd.Context(), func(_ *config.Config, svc *portssvc.ServiceContainer) error {
				user, err := svc.User.CreateUser(cmd.Context(), req, cliActor.UserID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.UserID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	return cmd
}
