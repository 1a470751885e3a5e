package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockrelay/internal/api"
	"stockrelay/internal/config"
	"stockrelay/internal/httpx"
	"stockrelay/internal/logging"
	"stockrelay/internal/metrics"
	"stockrelay/internal/provider/alphavantage"
	"stockrelay/internal/relay"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newHandler(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.RequestTimeoutSec)*time.Second + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          zap.NewStdLog(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.Server.TLSEnabled()))
		var err error
		if cfg.Server.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newHandler assembles the upstream client, the relay and the router.
func newHandler(cfg config.Config, logger *zap.Logger) http.Handler {
	if cfg.AlphaVantage.APIKey == "" {
		logger.Warn("ALPHAVANTAGE_API_KEY not set; upstream calls will be rejected")
	}
	logger.Info("configured upstream",
		zap.String("base_url", cfg.AlphaVantage.BaseURL),
		zap.Bool("api_key_set", cfg.AlphaVantage.APIKey != ""))

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	pool := httpx.NewPool(timeout)
	client := alphavantage.NewClient(cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithHTTPClient(pool.Client()),
		alphavantage.WithLogger(logger))

	return api.NewRouter(api.Config{
		Stocks:  relay.New(relay.Config{Timeout: timeout}, client, logger, m),
		Logger:  logger,
		Metrics: m,
		TLS:     cfg.Server.TLSEnabled(),
	})
}
