package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/core/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/bootstrap"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/spf13/cobra"
)

// cliActor is recorded on every write made from the command line.
var cliActor = domain.Actor{UserID: "system", Email: "hr_admin-cli"}

type rootOptions struct {
	Verbose bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "hr_admin",
		Short:         "HR admin operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newRecountCmd())
	cmd.AddCommand(newLegacyCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newUserCmd())
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// withServices loads configuration, opens storage and runs fn against the
// service container. Pending audit appends are flushed before returning.
func withServices(ctx context.Context, fn func(*config.Config, *portssvc.ServiceContainer) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StorageDriver == config.StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER=memory has no persistent data to operate on")
	}

	repos, closeRepos, err := bootstrap.OpenRepositories(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer closeRepos()

	container := services.NewServiceContainer(cfg, repos)
	defer container.Audit.Wait()
	return fn(cfg, container)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
