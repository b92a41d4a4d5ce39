package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/linktrack-go/internal/container"
	"github.com/serroba/linktrack-go/internal/messaging"
	"go.uber.org/zap"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func main() {
	opts := &container.Options{
		RedisAddr: envOr("REDIS_ADDR", "localhost:6379"),
		LogFormat: envOr("LOG_FORMAT", "console"),
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := group.Start(ctx); err != nil {
		logger.Fatal("consumer group start", zap.Error(err))
	}

	logger.Info("consuming click and link events")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}

	logger.Info("stopped")
}
