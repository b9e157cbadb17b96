package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"talent-match/internal/app"
	"talent-match/internal/config"
	"talent-match/internal/logger"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
)

// rematch recomputes cached match lists, either for an explicit id list
// or for every open opportunity. Meant to run from a nightly scheduler.
func main() {
	ids := flag.String("ids", "", "comma-separated opportunity ids (default: all open)")
	limit := flag.Int("limit", 0, "max opportunities when re-matching all open ones")
	intent := flag.String("intent", string(usecase.IntentNotify), "match intent: notify or preview")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
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

	container, err := app.NewContainer(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init container: " + err.Error())
	}
	defer func() { _ = container.Close() }()

	runIntent, err := usecase.ParseIntent(*intent)
	if err != nil {
		zlog.Fatal("invalid intent: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	targets, err := resolveTargets(ctx, container, *ids, *limit)
	if err != nil {
		zlog.Fatal("failed to resolve targets: " + err.Error())
	}
	if len(targets) == 0 {
		zlog.Info("nothing to rematch")
		return
	}

	summary, err := container.MatchUC.RematchOpportunities(ctx, targets, runIntent)
	if err != nil {
		zlog.Fatal("batch rematch failed: " + err.Error())
	}

	zlog.Info("rematch run complete",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
	for _, f := range summary.Failures {
		zlog.Warn("rematch item failed", zap.Stringer("opportunity_id", f.ID), zap.String("error", f.Error))
	}
}

func resolveTargets(ctx context.Context, c *app.Container, raw string, limit int) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return repository.NewPostgresOpportunityRepository(c.DB).ListOpenIDs(ctx, limit)
	}

	parts := strings.Split(raw, ",")
	out := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
