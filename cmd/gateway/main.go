package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/auth"
	"github.com/dwikikusuma/storefront/internal/gateway"
	"github.com/dwikikusuma/storefront/internal/guard"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/httpx"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	upstream, err := url.Parse(cfg.APIUpstream)
	if err != nil {
		return fmt.Errorf("parse API_UPSTREAM: %w", err)
	}
	if upstream.Host == "" {
		return fmt.Errorf("API_UPSTREAM %q has no host", cfg.APIUpstream)
	}

	pages := gateway.DirPages(cfg.StaticDir)
	if pages == nil {
		log.Warn("static dir missing, pages will 404", slog.String("dir", cfg.StaticDir))
	}

	gw := gateway.New(gateway.Options{
		Policy:   guard.DefaultPolicy(),
		Tokens:   auth.NewTokens(cfg.JWTSecret),
		Upstream: upstream,
		Pages:    pages,
		Logger:   log,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/", gw)

	addr := fmt.Sprintf(":%d", cfg.GatewayPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           httpx.AccessLog(log, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("upstream", upstream.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
	return nil
}
