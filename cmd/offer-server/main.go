package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/cache"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

// buildCacheStore connects to Redis when REDIS_ADDR is set and falls back to
// the in-process store otherwise.
func buildCacheStore(ctx context.Context, logger *zap.Logger) cache.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Info("using in-process offer cache",
			zap.String("op", "main"),
		)
		return cache.NewMemoryStore()
	}

	db := 0
	if rawDB := os.Getenv("REDIS_DB"); rawDB != "" {
		parsed, err := strconv.Atoi(rawDB)
		if err != nil {
			logger.Warn("invalid REDIS_DB value, using database 0",
				zap.String("op", "main"),
				zap.String("value", rawDB),
			)
		} else {
			db = parsed
		}
	}

	store, err := cache.NewRedisStore(ctx, addr, os.Getenv("REDIS_PASSWORD"), db)
	if err != nil {
		logger.Warn("redis unavailable, using in-process offer cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return cache.NewMemoryStore()
	}

	logger.Info("using redis offer cache",
		zap.String("op", "main"),
		zap.String("addr", addr),
	)
	return store
}

func main() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	configLocation := flag.String("config", "", "path to configuration file")
	address := flag.String("address", "", "listen address override")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Println("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initiate logger\"}")
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf := config.DefaultConfiguration()
	if *configLocation != "" {
		loaded, err := config.LoadConfiguration(*configLocation)
		if err != nil {
			logger.Fatal(fmt.Sprintf("failed to load configuration at %s", *configLocation),
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		conf = loaded
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	listenAddress := conf.Server.Address
	if *address != "" {
		listenAddress = *address
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := buildCacheStore(ctx, logger)
	handler := server.NewHandler(logger, store, conf, version)

	httpServer := &http.Server{
		Addr:         listenAddress,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("offer server listening",
			zap.String("op", "main"),
			zap.String("address", listenAddress),
			zap.String("version", version),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown did not complete cleanly",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
