package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grimoires/internal/repository"
	"grimoires/internal/seed"
	"grimoires/internal/service"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repos, err := repository.Open(cmd.Context(), cfg, newLogger())
			if err != nil {
				return err
			}
			defer repos.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s, prefix %q)\n", cfg.StorageDriver, cfg.TablePrefix)
			return nil
		},
	}
}

func newDropTablesCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "drop-tables",
		Short: "Drop every table of the configured environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Environment == "prod" {
				return fmt.Errorf("refusing to drop tables in the prod environment")
			}
			if !confirm {
				return fmt.Errorf("this deletes all %s data, pass --yes to confirm", cfg.Environment)
			}

			if err := repository.DropAll(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables dropped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the deletion")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo game with reference tables and a character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = cfg.DevUserID
			}

			logger := newLogger()
			repos, err := repository.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repos.Close()

			registry, err := service.SetupRules(cfg, logger)
			if err != nil {
				return err
			}
			images, err := service.SetupImageStore(cfg, registry)
			if err != nil {
				return err
			}
			services := service.SetupServices(repos, registry, images, cfg, logger)

			game, err := seed.NewSeeder(services, logger).SeedDemoGame(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded game %s (%s) for user %s\n", game.ID, game.Name, userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Owner of the demo game (defaults to DEV_USER_ID)")
	return cmd
}
