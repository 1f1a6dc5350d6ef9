// @title Boston Info Skill API
// @version 1.0
// @description Вебхук голосового навыка и отладочный API разрешения адресов Бостона.

// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"bostoninfo/database"
	"bostoninfo/intents"
	"bostoninfo/internal/config"
	"bostoninfo/normalization"
	"bostoninfo/notify"
	"bostoninfo/recollect"
	"bostoninfo/scraper"
	"bostoninfo/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		server.Logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	server.SetLogLevel(cfg.LogLevel)
	slog.SetDefault(server.Logger)
	logger := server.Logger

	logger.Info("Starting Boston Info skill server",
		"port", cfg.Port,
		"database", cfg.DatabasePath,
		"recollect_area", cfg.ReCollect.Area)

	db, err := database.NewLookupDBWithConfig(cfg.DatabasePath, database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("Failed to open lookup database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cache := recollect.NewCache(&recollect.CacheConfig{
		Enabled:         cfg.ReCollect.CacheEnabled,
		TTL:             cfg.ReCollect.CacheTTL,
		CleanupInterval: cfg.ReCollect.CacheTTL / 2,
		MaxSize:         1000,
	})
	defer cache.Close()

	lookup := recollect.NewClient(recollect.ClientConfig{
		BaseURL:   cfg.ReCollect.BaseURL,
		Area:      cfg.ReCollect.Area,
		ServiceID: cfg.ReCollect.ServiceID,
		Timeout:   cfg.ReCollect.Timeout,
		RateLimit: rate.Limit(cfg.ReCollect.RateLimit),
		Cache:     cache,
		Logger:    logger.With("component", "recollect"),
	})

	updates := scraper.NewClient(scraper.Config{
		HomepageURL:          cfg.Scraper.HomepageURL,
		CoronavirusDetailURL: cfg.Scraper.CoronavirusDetailURL,
		Timeout:              cfg.Scraper.Timeout,
		Logger:               logger.With("component", "scraper"),
	})

	resolver := normalization.NewAddressResolver(normalization.ResolverConfig{
		ZIPPrefixLen: cfg.AddressZIPPrefixLen,
	})

	var notifier notify.Notifier
	if slack := notify.NewSlackNotifier(cfg.SlackWebhookURL, "bostoninfo", logger); slack.Enabled() {
		notifier = slack
	} else {
		server.LogWarn(context.Background(), "Slack error notifications are disabled")
	}

	controller := intents.NewController(intents.ControllerConfig{
		ApplicationID: cfg.Skill.ApplicationID,
		Lookup:        lookup,
		Devices:       intents.NewDeviceAddressClient(cfg.Skill.APITimeout, logger.With("component", "device_address")),
		Updates:       updates,
		Resolver:      resolver,
		Recorder:      db,
		Logger:        logger.With("component", "skill"),
	})

	srv := server.New(cfg, server.Dependencies{
		Skill:    controller,
		Lookup:   lookup,
		Resolver: resolver,
		Lookups:  db,
		Cache:    cache,
		Notifier: notifier,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-errChan:
		if err != nil {
			logger.Error("HTTP server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.LogError(ctx, err, "Graceful shutdown failed")
	}
}
