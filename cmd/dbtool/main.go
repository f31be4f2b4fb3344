package main

import (
	"ambulance-dispatch-service/internal/adapters/repositories"
	"ambulance-dispatch-service/internal/config"
	"ambulance-dispatch-service/internal/platform/db"
	"ambulance-dispatch-service/internal/platform/logger"
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	seedPath    string
	log         zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Manage the ambulance dispatch Postgres schema and seed data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "Create the units and geocode_cache tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, sqlDB *sql.DB) error {
			log.Info().Msg("initializing database schema")
			if err := repositories.InitSchema(ctx, sqlDB); err != nil {
				return err
			}
			log.Info().Msg("schema ready")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and upsert units from a JSON seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, sqlDB *sql.DB) error {
			if err := repositories.InitSchema(ctx, sqlDB); err != nil {
				return err
			}

			log.Info().Str("path", seedPath).Msg("seeding database")
			n, err := repositories.SeedFromJSON(ctx, sqlDB, seedPath)
			if err != nil {
				return err
			}
			log.Info().Int("units", n).Msg("seeding complete")
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (default $DATABASE_URL)")
	seedCmd.Flags().StringVar(&seedPath, "file", "", "seed file (default $SEED_PATH or data/seeds/units.json)")

	rootCmd.AddCommand(initSchemaCmd, seedCmd)
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	if strings.TrimSpace(databaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(ctx, sqlDB)
}

func main() {
	envErr := godotenv.Load()
	log = logger.New("dbtool", config.Get("LOG_LEVEL", "info"))
	if envErr != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	if databaseURL == "" {
		databaseURL = config.Get("DATABASE_URL", "")
	}
	if seedPath == "" {
		seedPath = config.Get("SEED_PATH", "data/seeds/units.json")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("dbtool failed")
		os.Exit(1)
	}
}
