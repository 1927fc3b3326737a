package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/cgdmohamed/drznmobile-sub001/docs"
	handlers "github.com/cgdmohamed/drznmobile-sub001/internal/adapter/handler/http"
	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/logger"
	"github.com/cgdmohamed/drznmobile-sub001/internal/app"
	"github.com/cgdmohamed/drznmobile-sub001/internal/config"
)

// @title Image Cache API
// @version 1.0
// @description Resolves remote images to base64 data URIs with a bounded, persisted cache

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":   cfg.App.Name,
		"env":   cfg.App.Env,
		"store": cfg.Store.Backend,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store, fetcher and cache
	application, err := app.New(ctx, cfg, loggerAdapter)
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}
	defer application.Close()

	go application.Images.RunSweeper(ctx, cfg.Cache.SweepInterval)

	// Init router
	imageHandler := handlers.NewImageHandler(application.Images, loggerAdapter, application.Metrics)
	router, err := handlers.NewRouter(
		cfg.HTTP,
		application.Tokens,
		imageHandler,
		application.Registry,
	)
	if err != nil {
		log.Fatal("Error initializing router:", err)
	}

	listenAddr := fmt.Sprintf("%s:%s", cfg.HTTP.URL, cfg.HTTP.Port)
	server := router.Server(listenAddr)

	go func() {
		loggerAdapter.Info("Starting the HTTP server", map[string]interface{}{
			"addr": listenAddr,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting the HTTP server:", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	loggerAdapter.Info("Application is running", nil)

	<-stop

	loggerAdapter.Info("Shutting down", nil)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		loggerAdapter.Error("HTTP server shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	loggerAdapter.Info("Application stopped", nil)
}
