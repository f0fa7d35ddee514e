package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_ventas/api"
	"api_ventas/internal/config"
	"api_ventas/internal/database"
	"api_ventas/internal/detalles"
	"api_ventas/internal/logger"
	"api_ventas/internal/observability"
	"api_ventas/internal/sales"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(fmt.Errorf("error building logger: %v", err))
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	storage, closeDB, err := database.NewStorage(cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB()

	detallesClient := detalles.NewClient(cfg.Detalles.BaseURL, detalles.Options{
		ConnectTimeout: cfg.Detalles.ConnectTimeout,
		ReadTimeout:    cfg.Detalles.ReadTimeout,
	}, log)
	defer detallesClient.Close()

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	api.InitRoutes(r, api.Options{
		Sales:       sales.NewService(storage, log),
		Detalles:    detallesClient,
		GatewayURL:  cfg.GatewayURL,
		ServiceName: cfg.Tracing.ServiceName,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("detalle_ventas_url", cfg.Detalles.BaseURL),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("error trying to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
