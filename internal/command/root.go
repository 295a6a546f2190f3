// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/sakif/todo-api/internal/config"
	"github.com/sakif/todo-api/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := filepath.Join(xdg.ConfigHome, "todo-api", "config.yaml")
	cmd := &cobra.Command{
		Use:          "todo-api [command] [flags]",
		Short:        "Multi-user todo list API",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			explicit := cmd.Flags().Changed("config")
			cfg, err := loadConfigFile(configFilePath, explicit)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded",
				slog.String("address", cfg.Address),
				slog.String("driver", cfg.Database.Driver),
				slog.Bool("strict_ownership", cfg.StrictOwnership),
			)
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		userCommand(),
	)

	return cmd
}

// loadConfigFile reads path when it exists. A missing file at the default
// location falls back to defaults plus environment; a missing file the user
// named explicitly is an error.
func loadConfigFile(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil || explicit || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	return config.Load("")
}
