package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"talent-match/internal/config"
	"talent-match/internal/database/migration"
	"talent-match/internal/database/postgres"
	"talent-match/internal/database/seeder"
	"talent-match/internal/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding V<version>__<name>.sql files")
	seed := flag.Bool("seed", false, "insert demo candidates and opportunities after migrating")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.IsProduction(), !cfg.App.IsProduction())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect database: " + err.Error())
	}
	defer func() { _ = db.Close() }()

	if err := (migration.Runner{Dir: *dir}).Run(ctx, db); err != nil {
		zlog.Fatal("migration failed: " + err.Error())
	}
	zlog.Info("migrations applied")

	if *seed {
		run := seeder.Runner{Seeders: seeder.Defaults(cfg.Matching.EmbeddingDim)}
		if err := run.Run(ctx, db); err != nil {
			zlog.Fatal("seeding failed: " + err.Error())
		}
		zlog.Info("demo data seeded")
	}
}
