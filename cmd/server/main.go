package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"tradehub/internal/auth"
	"tradehub/internal/config"
	"tradehub/internal/database"
	"tradehub/internal/mailer"
	postgresrepo "tradehub/internal/repository/postgres"
	"tradehub/internal/service"
	"tradehub/internal/transport/http/handlers"
	"tradehub/internal/transport/http/middleware"
	"tradehub/internal/transport/ws"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	// Database
	pool, err := database.Connect(context.Background(), cfg)
	if err != nil {
		log.Error("database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)

	// Services
	codeMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, log)
	authenticator := auth.NewAuthenticator(userRepo, cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, codeMailer, cfg.JWTSecret, log)
	messageService := service.NewMessageService(messageRepo, log)

	// Hub + notifier
	hub := ws.NewHub(messageService, log)
	messageService.SetNotifier(ws.NewHubNotifier(hub))
	go hub.Run()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	messageHandler := handlers.NewMessageHandler(messageService, log)

	authMW := middleware.Auth(authenticator)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/verify", authHandler.Verify)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	mux.Handle("GET /api/v1/messages", authMW(http.HandlerFunc(messageHandler.History)))

	mux.Handle("GET /ws", ws.ServeWS(hub, authenticator))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, middleware.CORS(cfg.AllowedOrigins)(mux)); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
