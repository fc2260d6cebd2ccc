package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"trade-signal-dashboard/internal/app"
	"trade-signal-dashboard/internal/dashboard"
	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(app.InitializeSystem(os.Stdout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := app.LoadConfig(ctx)
	must(err)

	book, err := app.BuildBook(ctx, cfg)
	must(err)

	accessLog, err := newAccessLogger(cfg.HTTP.Mode)
	must(err)
	defer func() { _ = accessLog.Sync() }()

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: dashboard.NewRouter(book, accessLog, cfg.HTTP.Mode),
	}

	go func() {
		logger.Info(ctx, "Dashboard listening", "addr", cfg.HTTP.Addr, "trades", len(book.Trades))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "HTTP server stopped", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "Shutting down...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "HTTP shutdown failed", err)
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Tracer shutdown failed", err)
	}
}

func newAccessLogger(mode string) (*zap.Logger, error) {
	if mode == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
