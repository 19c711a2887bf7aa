package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"postaibot-webapp/internal/common/cache"
	"postaibot-webapp/internal/common/config"
	"postaibot-webapp/internal/common/i18n"
	"postaibot-webapp/internal/common/logger"
	"postaibot-webapp/internal/common/metrics"
	"postaibot-webapp/internal/common/middleware"
	welcomeHTTP "postaibot-webapp/internal/features/welcome/delivery/http"
	welcomeService "postaibot-webapp/internal/features/welcome/service"
	"postaibot-webapp/internal/features/welcome/surface"
	"postaibot-webapp/internal/platform/redis"
)

const serviceName = "postaibot-webapp"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load: %v", err))
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Str("locale", cfg.WebApp.Locale).Msg("Starting PostAIBot WebApp")

	if cfg.Telegram.BotToken == "" {
		logger.Warn().Msg("BOT_TOKEN is not set, init data is read without signature check")
	}

	metrics.MustRegister()

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.WebApp.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load locale")
	}

	welcome, err := surface.New(tr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build welcome screen")
	}

	redisClient, err := redis.OpenFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	var pageCache *cache.CacheService
	if redisClient != nil {
		defer redisClient.Close()
		pageCache = cache.NewCacheService(cache.NewRedisStore(redisClient))
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.Origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", middleware.InitDataHeader, middleware.LegacyInitDataHeader}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, welcome, pageCache, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(router *gin.Engine, cfg *config.Config, welcome *surface.Surface, pageCache *cache.CacheService, redisClient *redis.Client) {
	handler := welcomeHTTP.NewWelcomeHandler(
		welcomeService.NewBootstrapper(welcome),
		welcome,
		nil,
		cfg.Telegram.BotToken,
		cfg.Telegram.InitDataTTL,
	)

	pages := router.Group("/")
	pages.Use(middleware.TelegramInitData(), middleware.PageCache(pageCache, cfg.WebApp.Locale, cfg.Redis.PageCacheTTL))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitData())

	handler.RegisterRoutes(pages, v1)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}
