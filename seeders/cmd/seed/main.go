package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"hr-org-system/migrations"
	"hr-org-system/pkg/config"
	"hr-org-system/pkg/database/postgresql"
	"hr-org-system/seeders"
)

func main() {
	runMigrate := flag.Bool("migrate", false, "apply the base schema migrations first")
	runReference := flag.Bool("reference", false, "seed user types, termination reasons and job titles")
	runHierarchy := flag.Bool("hierarchy", false, "seed a sample market/region/district hierarchy")
	runAll := flag.Bool("all", false, "equivalent to -migrate -reference -hierarchy")
	flag.Parse()

	if !*runMigrate && !*runReference && !*runHierarchy && !*runAll {
		log.Println("no seeder selected, available flags:")
		flag.PrintDefaults()
		log.Println("example: go run ./seeders/cmd/seed -migrate -reference")
		return
	}

	cfg := config.New()
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbPool.Close()

	if *runAll || *runMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := migrations.Up(ctx, dbPool)
		cancel()
		if err != nil {
			log.Fatalf("base schema migration: %v", err)
		}
		log.Println("base schema is up to date")
	}
	if *runAll || *runReference {
		seeders.SeedReferenceData(dbPool)
	}
	if *runAll || *runHierarchy {
		seeders.SeedSampleHierarchy(dbPool)
	}
	log.Println("seeding finished")
}
