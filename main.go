package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/autocaption/config"
	"github.com/nijaru/autocaption/handlers"
	"github.com/nijaru/autocaption/logger"
	"github.com/nijaru/autocaption/mailer"
	"github.com/nijaru/autocaption/middleware"
	"github.com/nijaru/autocaption/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	closer, err := logger.Setup(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up logging")
	}
	defer closer.Close()

	if err := config.ValidateConfig(cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	m := mailer.New(cfg.SMTP)
	if !m.Configured() {
		logrus.Warn("SMTP is not configured; /api/email will reject requests")
	}

	var uploads handlers.UploadIssuer
	if cfg.Storage.Configured() {
		u, err := storage.New(context.Background(), cfg.Storage)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize upload storage")
		}
		uploads = u
	} else {
		logrus.Warn("S3_BUCKET is not set; /presigned will answer 503")
	}

	handlers.InitHandlers(cfg, m, uploads)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/email", handlers.EmailHandler)
	mux.Handle("/presigned", middleware.RateLimit(cfg.RateLimit, cfg.RateLimitInterval)(http.HandlerFunc(handlers.PresignHandler)))
	mux.HandleFunc("/health", handlers.HealthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Chain(mux, middleware.Logging),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatalf("Could not listen on :%s", cfg.ServerPort)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop

	logrus.Info("Shutting down the server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}
