package command

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sakif/todo-api/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the todo HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			srv, err := server.New(cfg, store, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
}
