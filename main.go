package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialapi/config"
	"socialapi/database"
	"socialapi/handlers"
	"socialapi/media"
	"socialapi/metrics"
	"socialapi/routes"
	"socialapi/services"
	"socialapi/websocket"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	setupLogging(cfg)

	log.Info("Starting social API server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := connectWithRetry(ctx, cfg.Mongo, 3)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := store.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("MongoDB disconnect failed")
		}
	}()
	store.EnsureIndexes(ctx)
	log.WithField("transactions", cfg.Mongo.Transactions).Info("MongoDB connected")

	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		// Posts without images still work; uploads answer 400 until fixed.
		log.WithError(err).WithField("provider", cfg.Media.Provider).Error("Media store unavailable")
		objects = nil
	}
	var uploader media.Uploader = media.NewBridge(objects, cfg.Media.Provider, metrics.RecordUpload)

	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	auth := services.NewAuthService(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	h := handlers.New(store, auth, hub, uploader, cfg.Media.UploadDir)
	router := routes.SetupRouter(h, auth, hub, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server error")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server stopped")
}

func setupLogging(cfg *config.Config) {
	if cfg.Release() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func connectWithRetry(ctx context.Context, cfg config.Mongo, attempts int) (*database.MongoStore, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		store, err := database.Connect(ctx, cfg)
		if err == nil {
			return store, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", i).Warn("MongoDB connection attempt failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, lastErr
}

func newObjectStore(ctx context.Context, cfg *config.Config) (media.ObjectStore, error) {
	switch cfg.Media.Provider {
	case "minio":
		return media.NewMinioStore(ctx, cfg.MinIO)
	default:
		return media.NewCloudinaryStore(cfg.Cloudinary)
	}
}
