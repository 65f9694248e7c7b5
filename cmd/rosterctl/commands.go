package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/auth"
	"github.com/yukikurage/roster-api/internal/config"
	"github.com/yukikurage/roster-api/internal/database"
	"github.com/yukikurage/roster-api/internal/logger"
	"github.com/yukikurage/roster-api/internal/repository"
	"github.com/yukikurage/roster-api/internal/services"
	"github.com/yukikurage/roster-api/internal/utils"
)

// env is the state shared by every subcommand once the database is open.
type env struct {
	cfg  *config.Config
	log  *zap.Logger
	db   *gorm.DB
	auth *services.AuthService
}

func newRootCommand() *cobra.Command {
	var logLevel string
	e := &env{}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Operator tasks for the roster API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(logLevel)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "supported log levels are debug, info, warn and error")

	root.AddCommand(
		newMigrateCommand(e),
		newInitAdminCommand(e),
		newResetPasswordCommand(e),
		newVerifyUserCommand(e),
	)
	return root
}

func (e *env) open(logLevel string) error {
	e.cfg = config.Load()

	log, err := logger.New(false, logLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	e.log = log

	db, err := database.Open(e.cfg, log)
	if err != nil {
		return err
	}
	e.db = db

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	// Operator commands never validate or revoke tokens, so the signing
	// secret only needs to be non-empty.
	secret := e.cfg.JWT.Secret
	if secret == "" {
		secret = "rosterctl"
	}
	e.auth = services.NewAuthService(
		userRepo,
		orgRepo,
		auth.NewJWTService(secret, e.cfg.JWT.ExpireHours),
		auth.NewMemoryRevocationStore(),
		e.cfg.DefaultOrg,
		log,
	)
	return nil
}

func (e *env) close() error {
	if e.log != nil {
		_ = e.log.Sync()
	}
	if e.db == nil {
		return nil
	}
	return database.Close(e.db)
}

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(e.db, e.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newInitAdminCommand(e *env) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Create the default organization and an admin account",
		Long: `Creates the default organization if it does not exist yet and an admin
user inside it. If a user with the email already exists it is promoted to
admin and its password is reset. Without --password a random one is
generated and printed once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(e.db, e.log); err != nil {
				return err
			}

			generated := password == ""
			if generated {
				p, err := utils.GeneratePassword()
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
				password = p
			}

			user, created, err := e.auth.EnsureAdmin(name, email, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "created admin %s (id %d, organization %d)\n", user.Email, user.ID, user.OrganizationID)
			} else {
				fmt.Fprintf(out, "promoted %s to admin and reset its password\n", user.Email)
			}
			if generated {
				fmt.Fprintf(out, "password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name of the admin")
	cmd.Flags().StringVar(&email, "email", "", "email of the admin (required)")
	cmd.Flags().StringVar(&password, "password", "", "password; generated when empty")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCommand(e *env) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Set a new password for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generated := password == ""
			if generated {
				p, err := utils.GeneratePassword()
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
				password = p
			}

			user, err := e.auth.ResetPassword(args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", user.Email)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password; generated when empty")
	return cmd
}

func newVerifyUserCommand(e *env) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "verify-user <email>",
		Short: "Show a user and optionally check a password against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if password != "" {
				user, err := e.auth.VerifyCredentials(args[0], password)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "credentials valid for %s (id %d)\n", user.Email, user.ID)
				return nil
			}

			user, err := repository.NewUserRepository(e.db).FindByEmail(strings.ToLower(strings.TrimSpace(args[0])))
			if err != nil {
				return fmt.Errorf("failed to find user: %w", err)
			}
			fmt.Fprintf(out, "id:           %d\n", user.ID)
			fmt.Fprintf(out, "name:         %s\n", user.Name)
			fmt.Fprintf(out, "email:        %s\n", user.Email)
			fmt.Fprintf(out, "role:         %s\n", user.Role)
			fmt.Fprintf(out, "organization: %d\n", user.OrganizationID)
			fmt.Fprintf(out, "password set: %t\n", user.PasswordHash != "")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to check")
	return cmd
}
