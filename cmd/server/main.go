package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventmanagement/config"
	"eventmanagement/internal/adapters/auth"
	"eventmanagement/internal/adapters/email"
	"eventmanagement/internal/adapters/notify"
	delivery "eventmanagement/internal/delivery/http"
	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/repository/postgres"
	"eventmanagement/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	bcryptCost      = 10
)

// @title Event Management API
// @version 1.0
// @description Event registration backend: events, subscriptions, comments, and role-based administration.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	rolePermissionRepo := postgres.NewRolePermissionRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	confirmationTokenRepo := postgres.NewConfirmationTokenRepository(db)

	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
		SMTP: email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	publisher := notify.NewNoopPublisher()
	if cfg.AMQPUrl != "" {
		publisher = notify.NewAMQPPublisher(cfg.AMQPUrl, logger)
	}

	emailService := services.NewEmailService(mailer)
	authzService := services.NewAuthzService(userRepo, roleRepo, rolePermissionRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, subscriptionRepo, publisher, logger, serviceTimeout)
	subscriptionService := services.NewSubscriptionService(eventRepo, userRepo, subscriptionRepo, publisher, logger, serviceTimeout)
	userService := services.NewUserService(userRepo, roleRepo, confirmationTokenRepo, hasher, tokenIssuer, cfg.TokenExpiry, emailService, cfg.PublicBaseURL, logger, serviceTimeout)
	commentService := services.NewCommentService(commentRepo, eventRepo, userRepo, authzService, publisher, logger, serviceTimeout)

	if err := seed(context.Background(), seedDeps{
		Roles:           roleRepo,
		RolePermissions: rolePermissionRepo,
		Events:          eventRepo,
		Logger:          logger,
		DemoData:        cfg.SeedDemoData,
	}); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}

	handler := delivery.NewRouter(delivery.RouterDeps{
		Logger:        logger,
		TokenVerifier: tokenVerifier,
		Authz:         authzService,
		Events:        controllers.NewEventController(logger, eventService),
		Subscriptions: controllers.NewSubscriptionController(logger, subscriptionService),
		Auth:          controllers.NewAuthController(logger, userService),
		Users:         controllers.NewUserController(logger, userService),
		AuthzAdmin:    controllers.NewAuthzController(logger, authzService),
		Comments:      controllers.NewCommentController(logger, commentService, authzService),
		CORSOrigins:   cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
