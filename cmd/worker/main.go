package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bcvrates-service/internal/bootstrap"
	"bcvrates-service/internal/config"
	"bcvrates-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hist, closeDB, err := bootstrap.BuildHistory(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap history", zap.Error(err))
	}
	defer closeDB()

	rateCache, closeCache, err := bootstrap.BuildCache(cfg)
	if err != nil {
		logger.Fatal("bootstrap cache", zap.Error(err))
	}
	defer closeCache()

	svc, runner := bootstrap.BuildService(hist, rateCache, bootstrap.BuildProvider(cfg), cfg)
	go runner.Start(ctx)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	bootstrap.BuildRefreshWorker(svc, cfg).Start(ctx)
	logger.Info("worker stopped")
}
