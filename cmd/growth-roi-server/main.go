package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelkehle/growth-roi/internal/commentary"
	"github.com/joelkehle/growth-roi/internal/httpapi"
	"github.com/joelkehle/growth-roi/internal/platform/config"
	"github.com/joelkehle/growth-roi/internal/platform/logging"
	platformotel "github.com/joelkehle/growth-roi/internal/platform/otel"
	"github.com/joelkehle/growth-roi/internal/render"
)

const serviceName = "growth-roi-server"

type serverConfig struct {
	Addr            string              `env:"GROWTH_ROI_ADDR" envDefault:":8080"`
	LogLevel        string              `env:"GROWTH_ROI_LOG_LEVEL" envDefault:"info"`
	Commentary      bool                `env:"GROWTH_ROI_COMMENTARY"`
	ChromePath      string              `env:"GROWTH_ROI_CHROME_PATH"`
	ShutdownTimeout time.Duration       `env:"GROWTH_ROI_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	OTel            platformotel.Config `envPrefix:"GROWTH_ROI_OTEL_"`
}

func main() {
	var cfg serverConfig
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatal(err)
	}
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	flag.Parse()

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger = logger.With("service", serviceName)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTelemetry, err := platformotel.Setup(ctx, serviceName, cfg.OTel)
	if err != nil {
		log.Fatalf("setup telemetry: %v", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	opts := httpapi.Options{
		PDF:    render.NewChromiumPDFRenderer(cfg.ChromePath),
		Logger: logger,
	}
	if cfg.Commentary {
		caller, err := commentary.NewAnthropicCallerFromEnv()
		if err != nil {
			log.Fatal(err)
		}
		opts.Commentary = commentary.NewWriter(caller)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", *addr, "commentary", cfg.Commentary)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
