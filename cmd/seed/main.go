package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"devblog/internal/cache"
	"devblog/internal/config"
	"devblog/internal/db"
	"devblog/internal/logging"
	"devblog/internal/repository"
	"devblog/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type adminFlags struct {
	username string
	email    string
	password string
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed DevBlog site content and the admin account",
		Long: `Seed brings a DevBlog database to a known state.

The schema is migrated first. Running a subcommand twice is safe: the about
section is upserted, social links are replaced and the admin account has its
password and privileges refreshed.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(siteCmd(), adminCmd(), allCmd())
	return cmd
}

func siteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "site",
		Short: "Upsert the about section and social links",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, seeder *service.SiteSeeder, logger logging.Logger) error {
				return syncSite(ctx, seeder, logger)
			})
		},
	}
}

func adminCmd() *cobra.Command {
	var flags adminFlags
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create or refresh the superuser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, seeder *service.SiteSeeder, logger logging.Logger) error {
				return ensureAdmin(ctx, seeder, logger, flags)
			})
		},
	}
	addAdminFlags(cmd, &flags)
	return cmd
}

func allCmd() *cobra.Command {
	var flags adminFlags
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run site and admin seeding",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, seeder *service.SiteSeeder, logger logging.Logger) error {
				if err := syncSite(ctx, seeder, logger); err != nil {
					return err
				}
				return ensureAdmin(ctx, seeder, logger, flags)
			})
		},
	}
	addAdminFlags(cmd, &flags)
	return cmd
}

func addAdminFlags(cmd *cobra.Command, flags *adminFlags) {
	cmd.Flags().StringVar(&flags.username, "username", "admin", "Admin username")
	cmd.Flags().StringVar(&flags.email, "email", "admin@example.com", "Admin email, used only when the account is created")
	cmd.Flags().StringVar(&flags.password, "password", "admin123", "Admin password")
}

func syncSite(ctx context.Context, seeder *service.SiteSeeder, logger logging.Logger) error {
	if err := seeder.SyncSite(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "about section and social links synchronized")
	return nil
}

func ensureAdmin(ctx context.Context, seeder *service.SiteSeeder, logger logging.Logger, flags adminFlags) error {
	created, err := seeder.EnsureAdmin(ctx, flags.username, flags.email, flags.password)
	if err != nil {
		return err
	}
	if created {
		logger.Info(ctx, "superuser created", "username", flags.username)
	} else {
		logger.Info(ctx, "superuser password and permissions refreshed", "username", flags.username)
	}
	return nil
}

// withSeeder connects, migrates and hands a ready seeder to fn.
func withSeeder(ctx context.Context, fn func(context.Context, *service.SiteSeeder, logging.Logger) error) error {
	cfg := config.Load()
	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer closeDB(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info(ctx, "database migrations completed")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	seeder := service.NewSiteSeeder(
		repository.NewSiteRepository(gormDB),
		repository.NewAccountRepository(gormDB),
		cacheClient,
	)
	return fn(ctx, seeder, logger)
}

func closeDB(gormDB *gorm.DB) {
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
