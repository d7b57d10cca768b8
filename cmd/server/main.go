package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/config"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/handler"
	"github.com/go-demo/forum/internal/middleware"
	"github.com/go-demo/forum/internal/pkg/cache"
	"github.com/go-demo/forum/internal/pkg/database"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/storage"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/repository"
	"github.com/go-demo/forum/internal/service"
	"github.com/go-demo/forum/internal/web"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(&cfg.Log)
	defer logger.Sync()

	logger.Info("Starting forum server",
		zap.String("mode", cfg.Server.Mode),
		zap.Int("port", cfg.Server.Port),
	)

	gin.SetMode(cfg.Server.Mode)

	db, err := database.NewPostgres(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db, logger)

	// Redis is optional: without it logout only clears the cookie and
	// rate limits are kept per process.
	var redisClient *redis.Client
	var revoker middleware.TokenRevoker
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer cache.Close(redisClient, logger)
		revoker = cache.NewSessionStore(redisClient, logger)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	tokens := utils.NewSessionTokenManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Issuer)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, logger)
	roomService := service.NewRoomService(roomRepo, topicRepo, messageRepo, logger)
	messageService := service.NewMessageService(messageRepo, roomRepo, logger)
	userService := service.NewUserService(userRepo, roomRepo, topicRepo, messageRepo, store, logger)

	sessionAuth := middleware.NewSessionAuth(tokens, revoker, authService, logger)

	renderer, err := web.NewRenderer(nil)
	if err != nil {
		logger.Fatal("Failed to load templates", zap.Error(err))
	}

	routes := &handler.Routes{
		Room:    handler.NewRoomHandler(roomService, messageService, logger),
		Message: handler.NewMessageHandler(messageService, logger),
		Auth:    handler.NewAuthHandler(authService, sessionAuth, logger),
		User:    handler.NewUserHandler(userService, logger),
		AuthLimit: middleware.AuthRateLimit(
			middleware.NewRateLimiter(redisClient, cfg.RateLimit.AuthRequests, cfg.RateLimit.Window),
			cfg.RateLimit.Window, logger,
		),
		MessageLimit: middleware.MessageRateLimit(
			middleware.NewRateLimiter(redisClient, cfg.RateLimit.MessageRequests, cfg.RateLimit.Window),
			cfg.RateLimit.Window, logger,
		),
	}

	router := setupRouter(cfg, logger, db, redisClient, store, renderer, sessionAuth, routes)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(cfg *config.LogConfig) *zap.Logger {
	var zapLevel zapcore.Level
	switch cfg.Level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
	}
	output := cfg.OutputPath
	if output == "" {
		output = "stdout"
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		panic(err)
	}

	return logger
}

func setupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *sqlx.DB,
	redisClient *redis.Client,
	store storage.Store,
	renderer *web.Renderer,
	sessionAuth *middleware.SessionAuth,
	routes *handler.Routes,
) *gin.Engine {
	router := gin.New()
	router.HTMLRender = renderer

	cookieStore := cookie.NewStore([]byte(cfg.Session.Secret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(sessions.Sessions(cfg.Session.CookieName, cookieStore))
	router.Use(sessionAuth.Middleware())

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		services := map[string]string{"database": "up"}
		if err := db.PingContext(c.Request.Context()); err != nil {
			services["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			services["redis"] = "up"
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				services["redis"] = "down"
				status = http.StatusServiceUnavailable
			}
		}

		health := "healthy"
		if status != http.StatusOK {
			health = "unhealthy"
		}
		c.JSON(status, response.HealthResponse{
			Status:    health,
			Timestamp: time.Now().Format(time.RFC3339),
			Services:  services,
		})
	})

	router.Static("/static", cfg.Server.StaticDir)
	if local, ok := store.(*storage.LocalStore); ok {
		router.Static(cfg.Storage.PublicURL, local.Dir())
	}

	routes.Register(router)

	router.NoRoute(func(c *gin.Context) {
		response.ErrorPage(c, apperrors.ErrNotFound)
	})

	return router
}
