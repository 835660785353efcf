package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matforge/catalog/internal/catalog/handler"
	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/catalog/service"
	"github.com/matforge/catalog/internal/config"
	"github.com/matforge/catalog/internal/middleware"
	"github.com/matforge/catalog/internal/shared/cognito"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting catalog service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	gateway := postgrest.NewClient(cfg.Gateway.URL)

	idp, err := cognito.NewClient(context.Background(), cognito.Config{
		Region:    cfg.Cognito.Region,
		ClientID:  cfg.Cognito.ClientID,
		AccessKey: cfg.Cognito.AccessKey,
		SecretKey: cfg.Cognito.SecretKey,
		Endpoint:  cfg.Cognito.Endpoint,
	})
	if err != nil {
		zapLogger.Fatal("Failed to init identity provider client", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unreachable, sessions fall back to in-process cache", zap.Error(err))
			rdb = nil
		}
	}

	repos := repository.NewRepositories(gateway)
	services := service.NewServices(repos, idp, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services, cfg)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, services)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, svc *service.Services) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		// Open endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/confirm", h.Auth.Confirm)
			auth.POST("/login", h.Auth.Login)
		}

		// Everything else requires a valid token
		authorized := v1.Group("")
		authorized.Use(middleware.CognitoAuth(svc.Auth, svc.Session))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			nouns := authorized.Group("/nouns")
			{
				nouns.GET("", h.Noun.List)
				nouns.POST("", h.Noun.Create)
				nouns.GET("/:id", h.Noun.Get)
				nouns.PATCH("/:id", h.Noun.Update)
				nouns.DELETE("/:id", h.Noun.Delete)
				nouns.GET("/:id/classes", h.Class.ListByNoun)
			}

			classes := authorized.Group("/classes")
			{
				classes.GET("", h.Class.List)
				classes.POST("", h.Class.Create)
				classes.GET("/:id", h.Class.Get)
				classes.PATCH("/:id", h.Class.Update)
				classes.DELETE("/:id", h.Class.Delete)
			}

			materials := authorized.Group("/materials")
			{
				materials.GET("", h.Material.List)
				materials.POST("", h.Material.Create)
				materials.GET("/search", h.Material.Search)
				materials.GET("/bulk-enrichment", h.Material.BulkEnrichment)
				materials.GET("/:id", h.Material.Get)
				materials.PATCH("/:id", h.Material.Update)
				materials.DELETE("/:id", h.Material.Delete)
			}
		}
	}
}
