package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devblog/docs"
	"devblog/internal/auth"
	"devblog/internal/cache"
	"devblog/internal/config"
	"devblog/internal/db"
	"devblog/internal/handler"
	"devblog/internal/llm"
	"devblog/internal/logging"
	"devblog/internal/repository"
	"devblog/internal/router"
	"devblog/internal/service"
	"devblog/internal/storage"
)

// @title DevBlog API
// @version 1.0
// @description Blog platform API: homepage feed, staff dashboard, JWT authentication and a chat assistant backed by OpenRouter.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return err
	}

	if cfg.ResetDB {
		logger.Warn(ctx, "RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn(ctx, "redis unreachable, running without cache", "addr", cfg.RedisAddr, "error", err)
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	siteRepo := repository.NewSiteRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := service.NewChatMetrics(registry)

	// Chat assistant
	llmClient := llm.NewClient(llm.Config{
		URL:     cfg.Chat.URL,
		APIKey:  cfg.Chat.APIKey,
		Referer: cfg.Chat.SiteURL,
		Title:   cfg.Chat.SiteName,
		Timeout: cfg.Chat.Timeout,
	}, llm.WithLogger(logger.With("component", "llm")))
	if !llmClient.HasAPIKey() {
		logger.Warn(ctx, "OPENROUTER_API_KEY is not set, chat replies will ask for configuration")
	}

	// Featured image storage
	var presigner service.Presigner
	if cfg.Storage.Enabled() {
		store, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		presigner = store
	} else {
		logger.Info(ctx, "object storage not configured, image uploads disabled")
	}

	// Initialize services
	authService := service.NewAuthService(accountRepo, jwtService, tokenStore)
	blogService := service.NewBlogService(postRepo, siteRepo, cacheClient)
	chatService := service.NewChatService(service.ChatConfig{
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		TopP:        cfg.Chat.TopP,
		SiteName:    cfg.Chat.SiteName,
	}, llmClient, postRepo, categoryRepo, logger, chatMetrics)
	dashboardService := service.NewDashboardService(postRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, postRepo, cacheClient)
	postService := service.NewPostService(postRepo, categoryRepo, cacheClient)
	userService := service.NewUserService(accountRepo, cacheClient)
	mediaService := service.NewMediaService(presigner)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, tokenStore, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Blog:      handler.NewBlogHandler(blogService),
		Chat:      handler.NewChatHandler(chatService, logger),
		Dashboard: handler.NewDashboardHandler(dashboardService, categoryService, postService, mediaService),
		User:      handler.NewUserHandler(userService),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info(ctx, "swagger documentation available", "url", swaggerURL(cfg))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info(ctx, "http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// swaggerURL builds the UI address; SwaggerHost may already carry a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
