package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nabondance/trailhead-banner-go/internal/application/container"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/manager"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/presentation/http/server"
	"github.com/nabondance/trailhead-banner-go/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	logCfg := logging.DefaultLoggerConfig()
	logCfg.OutputToConsole = config.LogToConsole
	logCfg.OutputToFile = config.LogToFile
	logCfg.LogDirectory = config.LogDirectory

	logger, err := logging.NewChanneledLogger(logCfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cacheManager := manager.NewManager(logger)
	cont := container.NewContainer(cacheManager, logger)
	defer cont.Shutdown()

	srv := server.New(config.Port, cont)
	go func() {
		if err := srv.Start(); err != nil {
			logger.System().Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()
	logger.Startup().Info("Banner service ready", "port", config.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Shutdown().Info("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Shutdown().Error("Graceful shutdown failed", "error", err.Error())
	}
}
