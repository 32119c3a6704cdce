package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hdvtrack/internal/application/collector"
	"hdvtrack/internal/application/port"
	"hdvtrack/internal/infrastructure/bridge"
	"hdvtrack/internal/infrastructure/config"
	"hdvtrack/internal/infrastructure/logger"
	"hdvtrack/internal/infrastructure/storage/postgres"
	"hdvtrack/internal/infrastructure/storage/redis"
	"hdvtrack/internal/infrastructure/storage/sqlite"
	"hdvtrack/internal/interfaces/export"
)

func main() {
	logger.Setup("info")

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.App.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open store failed")
	}
	defer store.Close()

	var feeds []port.ObservationFeed
	if cfg.Bridge.Structured {
		feeds = append(feeds, bridge.NewListingFeed(cfg.Bridge.WsURL, cfg.App.Server))
	}
	if cfg.Bridge.Scraper {
		feeds = append(feeds, bridge.NewMutationFeed(cfg.Bridge.WsURL, cfg.App.Server))
	}

	svc := collector.NewService(collector.Deps{
		Feeds:      feeds,
		Store:      store,
		Sink:       export.NewFileSink(cfg.Export.Dir),
		Server:     cfg.App.Server,
		Namespace:  cfg.App.Namespace,
		FlushEvery: time.Duration(cfg.App.FlushEveryMin) * time.Minute,
		Retention:  time.Duration(cfg.App.RetentionDays) * 24 * time.Hour,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SIGUSR1 stands in for the host's export button
	exportSig := make(chan os.Signal, 1)
	signal.Notify(exportSig, syscall.SIGUSR1)
	go func() {
		for range exportSig {
			svc.RequestExport()
		}
	}()

	log.Info().
		Str("config", *configPath).
		Str("server", cfg.App.Server).
		Str("driver", cfg.Storage.Driver).
		Int("flush_every_min", cfg.App.FlushEveryMin).
		Int("retention_days", cfg.App.RetentionDays).
		Int("feeds", len(feeds)).
		Msg("hdvtrack started")

	if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("collector exited")
	}
	log.Info().Msg("hdvtrack stopped")
}

func openStore(cfg *config.Config) (port.SnapshotStore, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return sqlite.New(cfg.Storage.Path)
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		// keep idle partitions a day past the retention window
		ttl := time.Duration(cfg.App.RetentionDays+1) * 24 * time.Hour
		return redis.New(rdb, ttl), nil
	case "postgres":
		return postgres.New(cfg.Storage.PostgresDSN)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
