package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogdocs "github.com/aouiniamine/eyecheck/docs/catalog"
	"github.com/aouiniamine/eyecheck/internal/config"
	"github.com/aouiniamine/eyecheck/internal/database"
	"github.com/aouiniamine/eyecheck/internal/features/catalog"
	"github.com/aouiniamine/eyecheck/internal/features/health"
	healthdto "github.com/aouiniamine/eyecheck/internal/features/health/dto"
	healthservice "github.com/aouiniamine/eyecheck/internal/features/health/service"
	"github.com/aouiniamine/eyecheck/internal/server"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Catalog API
// @version 1.0
// @description Read-only listing of the farm items collection
// @host localhost:8000
// @BasePath /

func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(!cfg.IsDevelopment())
	lg := logger.Named("catalog-service")
	ctx := context.Background()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		lg.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	mongoCfg := cfg.Catalog.Mongo
	db, err := database.New(database.Config{
		URI:            mongoCfg.URI,
		Name:           mongoCfg.Database,
		ConnectTimeout: mongoCfg.ConnectTimeout,
	})
	if err != nil {
		lg.Error(ctx, "failed to create database client", logger.Error(err))
		os.Exit(1)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, mongoCfg.ConnectTimeout)
	if err := db.Ping(pingCtx); err != nil {
		lg.Warn(ctx, "database unreachable; /items will fail until it is available",
			logger.String("database", mongoCfg.Database), logger.Error(err))
	}
	cancelPing()

	m := metrics.NewManager(metrics.WithConstLabels(prometheus.Labels{"service": "catalog"}))

	srv := server.New(server.Options{
		Config:  cfg.Catalog.Server,
		Logger:  lg.Named("http"),
		Metrics: m,
	})

	srv.Echo().GET("/swagger/*", echoSwagger.EchoWrapHandler(
		echoSwagger.InstanceName(catalogdocs.SwaggerInfo.InstanceName()),
	))

	healthFeature := health.New(
		healthdto.MessageResponse{Message: catalog.RootMessage},
		healthservice.Check{Name: "database", Probe: db.Ping},
	)
	healthFeature.RegisterRoutes(srv.Echo())

	catalogFeature := catalog.New(db.Collection(mongoCfg.Collection), lg, m)
	catalogFeature.RegisterRoutes(srv.Echo())

	go func() {
		lg.Info(ctx, "starting server",
			logger.String("addr", cfg.Catalog.Server.Addr()),
			logger.String("collection", mongoCfg.Database+"."+mongoCfg.Collection))
		if err := srv.Start(); err != nil {
			lg.Error(ctx, "server stopped", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error(ctx, "server forced to shutdown", logger.Error(err))
	}
	if err := db.Close(shutdownCtx); err != nil {
		lg.Warn(ctx, "failed to disconnect database", logger.Error(err))
	}

	lg.Info(ctx, "server exited gracefully")
}
