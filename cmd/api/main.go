package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bcvrates-service/internal/bootstrap"
	"bcvrates-service/internal/config"
	infraconfig "bcvrates-service/internal/infrastructure/config"
	httpserver "bcvrates-service/internal/infrastructure/http"
	"bcvrates-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

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

	srv := httpserver.NewServer(svc)
	srv.SetReadyCheck(hist.Ping)
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
