package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"okrtracker/config"
	"okrtracker/middleware"
	"okrtracker/routes"
	"okrtracker/sessions"
	"okrtracker/store"
	"okrtracker/utils"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	utils.InitLogger(cfg.LogLevel, cfg.IsProduction())
	flushSentry, err := utils.InitSentry(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		logrus.WithError(err).Warn("Sentry disabled")
	}
	defer flushSentry()

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDB()

	sessionConfig := sessions.Config{
		Expiration:   cfg.SessionTTL,
		CookieSecure: cfg.SessionCookieSecure,
	}
	if cfg.Redis.Enabled {
		redisStorage := sessions.NewRedisStorage(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStorage.Ping(ctx)
		cancel()
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStorage.Close()
		sessionConfig.Storage = redisStorage
		logrus.WithField("address", cfg.Redis.Address).Info("Sessions stored in Redis")
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, utils.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		logrus.Fatalf("Failed to initialize token manager: %v", err)
	}

	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	deps := routes.Dependencies{
		Companies:      store.NewCompanyStore(config.DB, hasher),
		Users:          store.NewUserStore(config.DB, hasher),
		Objectives:     store.NewObjectiveStore(config.DB),
		KeyResults:     store.NewKeyResultStore(config.DB),
		Sessions:       sessions.NewManager(sessionConfig),
		Tokens:         tokens,
		CookieKey:      sessions.CookieKey(cfg.SessionSecret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AccessLog:      true,
	}
	if cfg.SMTP.Enabled() {
		deps.Mailer = utils.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
			cfg.SMTP.Password, cfg.SMTP.FromEmail, cfg.SMTP.FromName)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "okrtracker",
		ErrorHandler: middleware.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	routes.Setup(app, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logrus.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
