package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/version"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func (o *rootOptions) load() (*AppConfig, error) {
	return loadConfig(o.configFile, o.envFile)
}

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "estetica-api",
		Short:         "Estética.IO clinic API",
		Version:       version.GetVersionInfo().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newCreateAdminCommand(opts),
	)
	return rootCmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			app, err := newServeApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			cfg.Database.AutoMigrate = true
			app, _, err := newApp(cfg)
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(ctx context.Context) error {
				logger.Info("schema is up to date", logger.Fields("database", cfg.Database.Address()))
				return nil
			})
		},
	}
}

func newCreateAdminCommand(opts *rootOptions) *cobra.Command {
	var email, name, secret string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Args:  cobra.NoArgs,
		Short: "Create the seed administrator if no admin exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if email != "" {
				cfg.Admin.Email = email
			}
			if name != "" {
				cfg.Admin.Name = name
			}
			if secret != "" {
				cfg.Admin.Password = secret
			}
			cfg.Database.AutoMigrate = true

			app, dbc, err := newApp(cfg)
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(ctx context.Context) error {
				svc, err := newServices(dbc.DB(), cfg, app.Logger)
				if err != nil {
					return err
				}
				created, err := svc.users.BootstrapAdmin(ctx, cfg.Admin)
				if err != nil {
					return err
				}
				if created {
					logger.Info("admin created", logger.Fields(logger.FieldEmail, cfg.Admin.Email))
				} else {
					logger.Info("an admin already exists, nothing to do")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (default from ADMIN_EMAIL)")
	cmd.Flags().StringVar(&name, "name", "", "admin display name (default from ADMIN_NAME)")
	cmd.Flags().StringVar(&secret, "password", "", "admin password (default from ADMIN_PASSWORD)")
	return cmd
}
