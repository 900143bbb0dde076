// Package main is the entry point for the chat client backend.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chatbot-pro/chatd/internal/auth"
	"github.com/chatbot-pro/chatd/internal/chat"
	"github.com/chatbot-pro/chatd/internal/config"
	"github.com/chatbot-pro/chatd/internal/handler"
	"github.com/chatbot-pro/chatd/internal/history"
	"github.com/chatbot-pro/chatd/internal/llm"
	"github.com/chatbot-pro/chatd/internal/middleware"
	"github.com/chatbot-pro/chatd/internal/service"
	"github.com/chatbot-pro/chatd/internal/store"
	"github.com/chatbot-pro/chatd/pkg/logger"
	"github.com/chatbot-pro/chatd/pkg/tracing"
)

func main() {
	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting chatd")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "chatd", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the local store (the durable stand-in for the browser profile).
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer repo.Close()

	// Missing key is not fatal: sends fail with a configuration error
	// rendered as a bot message.
	if cfg.OpenRouterAPIKey == "" {
		log.Warn("OpenRouter API key not found in environment variables")
	}

	providerKey := cfg.OpenRouterAPIKey
	if llm.Provider(cfg.DefaultProvider) == llm.ProviderAnthropic {
		providerKey = cfg.AnthropicAPIKey
	}
	provider, err := llm.NewClient(llm.Provider(cfg.DefaultProvider), llm.ProviderConfig{
		APIKey:   providerKey,
		Referer:  cfg.AppReferer,
		AppTitle: cfg.AppTitle,
	})
	if err != nil {
		log.Error("failed to create model provider client", zap.Error(err))
		os.Exit(1)
	}

	chatClient := chat.NewClient(provider, cfg.ModelName, log)

	hist := history.NewManager(repo)
	if err := hist.Load(ctx); err != nil {
		log.Warn("failed to load input history", zap.Error(err))
	}

	authSvc := auth.NewService(repo, cfg.JWTSecret, cfg.JWTExpiration, log)

	conversationSvc := service.NewConversationService(chatClient, repo, hist, log)
	if err := conversationSvc.Load(ctx); err != nil {
		log.Error("failed to load conversations", zap.Error(err))
		os.Exit(1)
	}

	healthHandler := handler.NewHealthHandler(repo)
	authHandler := handler.NewAuthHandler(authSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	messageHandler := handler.NewMessageHandler(conversationSvc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/session", authHandler.Session)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authSvc))
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", conversationHandler.Create)
				r.Get("/", conversationHandler.List)
				r.Delete("/", conversationHandler.Clear)

				r.Route("/{id}", func(r chi.Router) {
					r.Post("/select", conversationHandler.Select)
					r.Delete("/", conversationHandler.Delete)
					r.Get("/export", conversationHandler.Export)
				})
			})

			r.Post("/messages", messageHandler.Send)
			r.Get("/messages/history", messageHandler.InputHistory)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
