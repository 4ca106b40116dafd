package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"shugly/internal/cache"
	"shugly/internal/config"
	"shugly/internal/logging"
	"shugly/internal/modules/chat"
	"shugly/internal/notification"
	"shugly/internal/pkg/jwt"
	"shugly/internal/pkg/validator"
	"shugly/internal/server"
	"shugly/internal/session"
	"shugly/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flushSentry, err := logging.InitSentry(cfg.Sentry.DSN, cfg.AppEnv, cfg.Sentry.TracesSampleRate)
	if err != nil {
		log.Fatalf("sentry: %v", err)
	}
	defer flushSentry()

	if cfg.Sentry.DSN != "" {
		logging.Setup(cfg.LogLevel, logging.NewSentryHandler(logging.ParseLevel(cfg.LogLevel)))
	} else {
		logging.Setup(cfg.LogLevel)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validator.RegisterGinValidations(); err != nil {
		log.Fatalf("validator: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := server.OpenStores(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStores()

	tokens := jwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	hub := chat.NewHub()
	defer hub.Close()

	// Redis is optional: without it revocations and chat events stay in this process.
	var (
		denylist    cache.Denylist = cache.NewMemoryDenylist()
		broadcaster chat.Broadcaster
		redisClient *cache.RedisClient
	)
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = redisClient.Close() }()

		redisBroadcaster := chat.NewRedisBroadcaster(redisClient, hub)
		go redisBroadcaster.Run(ctx)

		denylist = cache.NewRedisDenylist(redisClient)
		broadcaster = redisBroadcaster
	} else {
		slog.Warn("REDIS_URL not set, using in-process deny-list and chat fanout")
		broadcaster = chat.NewLocalBroadcaster(hub)
	}

	var (
		imageBackend storage.Backend
		uploadsDir   string
		uploadsPath  string
	)
	if cfg.MinIO.Endpoint != "" {
		b, err := storage.NewMinIOBackend(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
			cfg.MinIO.Bucket, cfg.MinIO.UseSSL, cfg.MinIO.PublicURL)
		if err != nil {
			log.Fatalf("minio: %v", err)
		}
		imageBackend = b
	} else {
		disk := storage.NewDiskBackend(cfg.UploadsDir, storage.DefaultStaticBase)
		imageBackend = disk
		uploadsDir, uploadsPath = disk.Dir(), disk.StaticBase()
	}

	var sender notification.Sender
	if cfg.FCM.Enabled() {
		fcm, err := notification.NewFCMSender(ctx, cfg.FCM.CredentialsFile, cfg.FCM.CredentialsBase64)
		if err != nil {
			log.Fatalf("fcm: %v", err)
		}
		sender = fcm
	}

	sessions := session.NewProvider(tokens, stores.Users, denylist, cfg.Auth.SessionProfileTimeout)

	deps := server.Deps{
		Stores:      stores,
		Tokens:      tokens,
		Sessions:    sessions,
		Images:      storage.NewImageStore(imageBackend),
		Notifier:    notification.NewNotifier(stores.Users, sender),
		Hub:         hub,
		Broadcaster: broadcaster,
	}
	if redisClient != nil {
		deps.CatalogCache = redisClient
	}

	router := server.NewRouter(server.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Sessions:       sessions,
		UploadsDir:     uploadsDir,
		UploadsPath:    uploadsPath,
	}, server.NewHandlers(deps))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		slog.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
