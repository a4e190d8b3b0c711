package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New(logger.Options{
		ServiceName: "storefront-migrate",
		Level:       logger.ParseLevel(os.Getenv(config.EnvPrefix + "_LOG_LEVEL")),
		Format:      os.Getenv(config.EnvPrefix + "_LOG_FORMAT"),
	})

	cfg, err := config.LoadDB()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, *cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if *down > 0 {
		if err := migrate.Rollback(ctx, pool, *down); err != nil {
			log.Fatal().Err(err).Int("steps", *down).Msg("roll back migrations")
		}
	} else if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	version, dirty, ok, err := migrate.Version(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("read schema version")
	}
	if !ok {
		log.Info().Msg("schema empty")
		return
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
}
