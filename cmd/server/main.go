package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"github.com/tallyhq/tally/internal/api"
	"github.com/tallyhq/tally/internal/factory"
	redisstorage "github.com/tallyhq/tally/internal/storage/redis"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("TALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("storage", factory.StorageTypeMemory)
	v.SetDefault("redis-url", "redis://localhost:6379")
	v.SetDefault("log-level", "info")

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(v.GetString("log-level")),
	}))
	slog.SetDefault(logger)

	cfg := factory.Config{
		Logger:      logger,
		StorageType: v.GetString("storage"),
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = v.GetString("redis-url")
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Syncer:         app.Syncer,
		ProfileService: app.ProfileService,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = v.GetString("host")
	serverConfig.Port = v.GetInt("port")
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
