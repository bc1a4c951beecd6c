package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rachit/chat-backend/internal/auth"
	"github.com/rachit/chat-backend/internal/chat"
	"github.com/rachit/chat-backend/internal/config"
	"github.com/rachit/chat-backend/internal/conversation"
	"github.com/rachit/chat-backend/internal/logging"
	"github.com/rachit/chat-backend/internal/middleware"
	"github.com/rachit/chat-backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ── AWS clients ──────────────────────────────────────────
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal("aws config", zap.Error(err))
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)

	// ── Store + inference ────────────────────────────────────
	db := store.NewDynamoStore(dynamoClient, cfg.UsersTable, cfg.ConversationsTable)
	nova := chat.NewNovaClient(bedrockClient, cfg.BedrockModelID)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(db)
	conversationHandler := conversation.NewHandler(db, db)
	chatHandler := chat.NewHandler(db, nova, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (register/login public)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(middleware.RequireAuth(db)).Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(db)).Get("/me", authHandler.Me)
	})

	// Conversation routes
	r.Route("/api/conversations", func(r chi.Router) {
		r.Post("/", conversationHandler.Resolve)
		r.Post("/history", conversationHandler.History)
	})

	// Chat route
	r.Post("/api/chat", chatHandler.Submit)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
