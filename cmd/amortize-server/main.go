package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/amortize/internal/cache"
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/internal/comparison"
	"github.com/iwvelando/amortize/internal/logging"
	"github.com/iwvelando/amortize/internal/server"
	"github.com/iwvelando/amortize/internal/store"
	"github.com/iwvelando/amortize/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calcCache, err := cache.New(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Warn("calculation cache unavailable",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if calcCache != nil {
		defer func() {
			_ = calcCache.Close()
		}()
	}

	loanStore, err := store.NewSQLiteStore(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal("failed to open saved loan store",
			zap.String("op", "main"),
			zap.String("path", cfg.Store.Path),
			zap.Error(err),
		)
	}
	defer func() {
		_ = loanStore.Close()
	}()

	calc := calculator.NewService(logger, calcCache)
	handler := server.NewHandler(logger, server.Options{
		Calculator:  calc,
		Comparison:  comparison.NewService(loanStore, calc, logger),
		MaxBodySize: cfg.BodySizeBytes(),
		Version:     version,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "main"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
