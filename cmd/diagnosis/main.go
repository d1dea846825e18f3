package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	diagnosisdocs "github.com/aouiniamine/eyecheck/docs/diagnosis"
	"github.com/aouiniamine/eyecheck/internal/cache"
	"github.com/aouiniamine/eyecheck/internal/config"
	"github.com/aouiniamine/eyecheck/internal/features/diagnosis"
	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/service"
	"github.com/aouiniamine/eyecheck/internal/features/health"
	healthdto "github.com/aouiniamine/eyecheck/internal/features/health/dto"
	healthservice "github.com/aouiniamine/eyecheck/internal/features/health/service"
	"github.com/aouiniamine/eyecheck/internal/inference"
	"github.com/aouiniamine/eyecheck/internal/server"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Diagnosis API
// @version 1.0
// @description Myopia screening from a pair of eye images
// @host localhost:8001
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
	lg := logger.Named("diagnosis-service")
	ctx := context.Background()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		lg.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	m := metrics.NewManager(metrics.WithConstLabels(prometheus.Labels{"service": "diagnosis"}))

	mc := cfg.Diagnosis.Model
	opts := service.Options{
		ModelID: mc.Path,
		Labels:  mc.Labels,
		Logger:  lg.Named("predict"),
		Metrics: m,
	}

	session, clf, err := inference.Load(inference.SessionOptions{
		ModelPath:      mc.Path,
		RuntimeLibrary: mc.RuntimeLibrary,
		InputName:      mc.InputName,
		OutputName:     mc.OutputName,
		ImageSize:      mc.ImageSize,
		NumOutputs:     mc.NumOutputs,
	}, mc.Mean, mc.Std)
	if err != nil {
		lg.Error(ctx, "failed to load model; predictions will report Model Error",
			logger.String("path", mc.Path), logger.Error(err))
	} else {
		defer session.Close()
		opts.Classifier = clf
		lg.Info(ctx, "model loaded",
			logger.String("path", mc.Path),
			logger.Any("labels", mc.Labels))
	}
	m.SetModelLoaded(err == nil)

	var redisCache *cache.Redis
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			lg.Warn(ctx, "diagnosis cache disabled", logger.Error(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			opts.Cache = redisCache
		}
	}

	srv := server.New(server.Options{
		Config:    cfg.Diagnosis.Server,
		Logger:    lg.Named("http"),
		Metrics:   m,
		BodyLimit: cfg.Diagnosis.MaxBodySize,
	})

	srv.Echo().GET("/swagger/*", echoSwagger.EchoWrapHandler(
		echoSwagger.InstanceName(diagnosisdocs.SwaggerInfo.InstanceName()),
	))

	diagnosisFeature := diagnosis.New(opts)

	checks := []healthservice.Check{{Name: "model", Probe: diagnosisFeature.Service.Ready}}
	if redisCache != nil {
		checks = append(checks, healthservice.Check{Name: "cache", Probe: redisCache.Ping})
	}
	healthFeature := health.New(healthdto.StatusResponse{Status: diagnosis.RootStatus}, checks...)
	healthFeature.RegisterRoutes(srv.Echo())

	diagnosisFeature.RegisterRoutes(srv.Echo())

	go func() {
		lg.Info(ctx, "starting server", logger.String("addr", cfg.Diagnosis.Server.Addr()))
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

	lg.Info(ctx, "server exited gracefully")
}
