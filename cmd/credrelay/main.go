// Package main wires the credential relay executable entry point and
// lifecycle management.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/retailsol/credrelay/pkg/config"
	"github.com/retailsol/credrelay/pkg/logging"
	"github.com/retailsol/credrelay/pkg/relay"
	"github.com/retailsol/credrelay/pkg/secrets"
	"github.com/retailsol/credrelay/pkg/telemetry"
)

const (
	telemetryShutdownTimeout = 5 * time.Second
	gracefulShutdownTimeout  = 10 * time.Second
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	configPath := flag.String("config-path", "", "Path to the configuration file")
	listenAddr := flag.String("listen", "", "HTTP listen address, overrides config")
	otelEndpoint := flag.String("otel-endpoint", "", "OTLP endpoint")
	logLevel := flag.String("log-level", "", "Log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration load failed: %v", err)
	}

	// Apply flag overrides
	if *listenAddr != "" {
		host, portStr, splitErr := net.SplitHostPort(*listenAddr)
		if splitErr != nil {
			log.Fatalf("invalid listen address %q: %v", *listenAddr, splitErr)
		}
		port, convErr := net.LookupPort("tcp", portStr)
		if convErr != nil {
			log.Fatalf("invalid listen port %q: %v", portStr, convErr)
		}
		cfg.Server.Host = host
		cfg.Server.Port = port
	}
	if *otelEndpoint != "" {
		cfg.Telemetry.OTLPEndpoint = *otelEndpoint
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("application failed: %v", err)
	}
}

// run orchestrates the application lifecycle.
func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.Setup(relay.ServiceName, logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	telemetryShutdown, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName: relay.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Environment: os.Getenv("RELAY_ENVIRONMENT"),
	})
	if err != nil {
		return fmt.Errorf("telemetry initialization failed: %w", err)
	}
	defer shutdownTelemetry(telemetryShutdown, logger)

	resolver := secrets.NewResolver(cfg.Secrets.Paths...)
	startSecretsWatcher(ctx, resolver, logger)

	srv := relay.NewServer(cfg, resolver, logger)

	handler := otelhttp.NewHandler(srv.Handler(), "relay.http")
	httpServer := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		ln, err := net.Listen("tcp", httpServer.Addr)
		if err != nil {
			errCh <- fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
			return
		}
		logger.Info().
			Str("address", ln.Addr().String()).
			Bool("secrets_file_detected", resolver.FileDetected()).
			Msg("relay listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// startSecretsWatcher observes the local secrets file when one is present so
// credential rollovers show up in the logs. Watch failures are not fatal.
func startSecretsWatcher(ctx context.Context, resolver *secrets.Resolver, logger zerolog.Logger) {
	path, ok := resolver.FilePath()
	if !ok {
		// No file yet; watch the working directory location so creation
		// of the file is still noticed.
		wd, err := os.Getwd()
		if err != nil {
			return
		}
		path = filepath.Join(wd, secrets.FileName)
	}

	watcher, err := secrets.NewWatcher(path, nil, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("secrets watcher unavailable")
		return
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Warn().Err(err).Msg("secrets watcher failed to start")
	}
}

// shutdownTelemetry gracefully shuts down the telemetry provider.
func shutdownTelemetry(shutdown func(context.Context) error, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("telemetry shutdown error")
	}
}
