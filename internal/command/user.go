package command

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/service"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(userCreateCommand())
	return cmd
}

func userCreateCommand() *cobra.Command {
	var email, id string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create user",
		Long: "Creates a user account with the same rules as POST /signup. Passwords may be\n" +
			"provided via stdin or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}
			passwords, err := auth.NewPasswordService(cfg.BcryptCost)
			if err != nil {
				return err
			}
			svc := service.NewAuthService(store, tokens, passwords, logger)

			passwd, err := prompt("password: ", true)
			if err != nil {
				return err
			}
			user, err := svc.Register(cmd.Context(), service.RegisterInput{
				ID:       id,
				Name:     args[0],
				Email:    email,
				Password: string(passwd),
			})
			if err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "created user",
				slog.String("user_id", user.ID),
				slog.String("email", user.Email),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address used to log in")
	cmd.Flags().StringVar(&id, "id", "", "user id (generated when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
