package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dwikikusuma/storefront/internal/auth"
	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	carthttp "github.com/dwikikusuma/storefront/internal/cart/httpapi"
	cartadapter "github.com/dwikikusuma/storefront/internal/cart/infra/adapter"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/storefront/internal/catalog/httpapi"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkouthttp "github.com/dwikikusuma/storefront/internal/checkout/httpapi"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/guard"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/httpx"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	deps, err := openDeps(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("dependencies unavailable: %w", err)
	}
	defer deps.Close()

	// Catalog
	productRepo, err := deps.productRepo(cfg, log)
	if err != nil {
		return fmt.Errorf("catalog store: %w", err)
	}
	catalogSvc := catalogapp.NewService(productRepo)

	// Cart
	cartRepo, err := deps.cartRepo(cfg)
	if err != nil {
		return fmt.Errorf("cart store: %w", err)
	}
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewCatalogServiceReader(catalogSvc), cartapp.Options{
		MergeOnResize: cfg.CartMergeOnResize,
		Logger:        log,
	})

	// Checkout (adapters)
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		10,
	)

	tokens := auth.NewTokens(cfg.JWTSecret)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("storefront-api"))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Ready(r.Context()); err != nil {
			log.WarnContext(r.Context(), "not ready", slog.Any("err", err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	shop := r.PathPrefix("/api/shop").Subrouter()
	cataloghttp.NewHandler(catalogSvc, log).RegisterShop(shop)
	carthttp.NewHandler(cartSvc, log).Register(shop.PathPrefix("/cart").Subrouter())
	checkouthttp.NewHandler(checkoutSvc, log).Register(shop.PathPrefix("/checkout").Subrouter())

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(tokens.RequireRole(guard.RoleAdmin))
	cataloghttp.NewHandler(catalogSvc, log).RegisterAdmin(admin)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           httpx.AccessLog(log, r),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("storefront.api", healthpb.HealthCheckResponse_SERVING)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc health starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")
	healthSrv.Shutdown()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := server.Shutdown(stopCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopCtx.Done():
		log.Warn("graceful stop timeout, forcing stop")
		grpcServer.Stop()
	case <-stopped:
	}

	wg.Wait()
	log.Info("bye")
	return nil
}
