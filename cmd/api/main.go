package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/api/server"
	"github.com/feral-file/ff-wallet-assets/internal/bridge"
	"github.com/feral-file/ff-wallet-assets/internal/config"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
	"github.com/feral-file/ff-wallet-assets/internal/providers/auth"
	"github.com/feral-file/ff-wallet-assets/internal/providers/jetstream"
	"github.com/feral-file/ff-wallet-assets/internal/ratelimit"
	"github.com/feral-file/ff-wallet-assets/internal/walletcache"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "wallet-assets-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Wallet Assets API")

	// Initialize adapters
	httpClient := adapter.NewHTTPClient(cfg.AssetGraph.HTTPTimeout)
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	tokens := auth.NewTokenSource(httpClient, cfg.AssetGraph.TokenURL, jsonAdapter, clock)
	updates := notifier.New()
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.AssetGraph.RateLimit.RequestsPerSecond,
		Burst:             cfg.AssetGraph.RateLimit.Burst,
		MaxQueueTime:      cfg.AssetGraph.RateLimit.MaxQueueTime,
	})

	// One cache per asset kind, all publishing to the same notifier
	cacheConfig := walletcache.Config{
		TTL:                cfg.Cache.TTL,
		PageSize:           cfg.Cache.PageSize,
		PageTimeout:        cfg.Cache.PageTimeout,
		EvictAfter:         cfg.Cache.EvictAfter,
		CleanupInterval:    cfg.Cache.CleanupInterval,
		MaxConcurrentLoads: cfg.Cache.MaxConcurrentLoads,
	}
	caches := make([]walletcache.Cache, 0, len(domain.AssetKinds))
	for _, kind := range domain.AssetKinds {
		client, err := assetgraph.NewClient(httpClient, tokens, cfg.AssetGraph.URL, kind, jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create asset graph client", zap.Error(err), zap.String("kind", string(kind)))
		}
		caches = append(caches, walletcache.New(limiter.Wrap(client), updates, clock, cacheConfig))
	}
	defer func() {
		for _, cache := range caches {
			cache.Close()
		}
	}()
	logger.InfoCtx(ctx, "Wallet caches ready",
		zap.Int("kinds", len(caches)),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Int("page_size", cfg.Cache.PageSize),
	)

	// Relay wallet updates to NATS when enabled
	if cfg.NATS.Enabled {
		publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
		}

		relay := bridge.NewRelay(bridge.Config{
			QueueSize:      cfg.NATS.QueueSize,
			PublishTimeout: cfg.NATS.PublishTimeout,
		}, updates, publisher, domain.AssetKinds)
		defer relay.Close()

		go func() {
			if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
				logger.ErrorCtx(ctx, err, zap.String("component", "relay"))
			}
		}()
	} else {
		logger.WarnCtx(ctx, "NATS relay disabled, wallet updates stay in-process")
	}

	serverConfig := server.Config{
		Debug:              cfg.Debug,
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:       time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:        time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}

	srv := server.New(serverConfig, caches, updates)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Wallet assets API stopped")
}
