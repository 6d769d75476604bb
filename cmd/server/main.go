package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/config"
	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/database"
	"github.com/yukikurage/officedesk/internal/handlers"
	"github.com/yukikurage/officedesk/internal/logging"
	"github.com/yukikurage/officedesk/internal/repository"
	"github.com/yukikurage/officedesk/internal/services"
	"github.com/yukikurage/officedesk/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.InitLogger(cfg)
	log := logging.Logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStorage()

	recordStore := store.New(repo, log)

	svc := handlers.Services{
		Auth:          services.NewAuthService(recordStore, services.AuthMode(cfg.AuthMode), log),
		Users:         services.NewUserService(recordStore),
		Clients:       services.NewClientService(recordStore),
		TaskTypes:     services.NewTaskTypeService(recordStore),
		Tasks:         services.NewTaskService(recordStore, log),
		Chat:          services.NewChatService(recordStore),
		Notifications: services.NewNotificationService(recordStore),
		AI:            services.NewAIService(cfg.OpenAIAPIKey, log),
	}

	if _, err := svc.Auth.SeedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed administrator: %v", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	handlers.RegisterRoutes(r, svc)

	watcher := services.NewOverdueWatcher(recordStore, cfg.OverdueCheckInterval, log)
	go watcher.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	log.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"storage": cfg.StorageBackend,
		"auth":    svc.Auth.Mode(),
	}).Info("Server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Info("Server stopped")
}

// openStorage builds the key-value repository selected by
// STORAGE_BACKEND and returns a function releasing it.
func openStorage(ctx context.Context, cfg *config.Config) (repository.KeyValueRepository, func(), error) {
	log := logging.Logger
	switch cfg.StorageBackend {
	case "sql", "":
		db, err := database.Connect(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, log); err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormKeyValueRepository(db), closeDB, nil
	case "mongo":
		client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("MongoDB connection established")
		disconnect := func() { _ = client.Disconnect(context.Background()) }
		return repository.NewMongoKeyValueRepository(client, cfg.MongoDatabase), disconnect, nil
	case "memory":
		log.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewMemoryKeyValueRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore != "redis" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}

// requestLogger logs one line per request through the application logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("Request handled")
	}
}
