// Package main starts the care portal API server, wiring configuration,
// logging, the database, repositories, services and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/teameicu/careportal/internal/config"
	"github.com/teameicu/careportal/internal/db"
	"github.com/teameicu/careportal/internal/jwtmanager"
	"github.com/teameicu/careportal/internal/logger"
	"github.com/teameicu/careportal/internal/mailer"
	"github.com/teameicu/careportal/internal/repository"
	"github.com/teameicu/careportal/internal/server/handler/http"
	"github.com/teameicu/careportal/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	db.StartPredictionCleaner(context.Background(), postgresDB,
		time.Hour,
		90*24*time.Hour,
		zapLogger,
	)

	userRepo := repository.NewPostgresUserRepository(postgresDB)
	predRepo := repository.NewPostgresPredictionRepository(postgresDB)
	contactRepo := repository.NewPostgresContactRepository(postgresDB)

	tokens := jwtmanager.New(options.JWTSecret)
	otpMailer := mailer.NewSMTPMailer(options.SMTPHost, options.SMTPPort,
		options.SMTPUser, options.SMTPPass, options.EmailSender)

	authService := service.NewAuthService(userRepo, tokens)
	otpService := service.NewOTPService(otpMailer)
	predService := service.NewPredictionService(predRepo, userRepo)
	contactService := service.NewContactService(contactRepo, zapLogger)

	if options.AdminEmail != "" && options.AdminPassword != "" {
		if err := authService.SeedAdmin(context.Background(), options.AdminEmail, options.AdminPassword); err != nil {
			zapLogger.Fatal("cannot seed admin account", zap.Error(err))
		}
	} else {
		zapLogger.Warn("admin credentials not configured, skipping admin seed")
	}

	authHandler := http.NewAuthHandler(authService, otpService)
	predictHandler := &http.PredictHandler{PredictionService: predService}
	contactHandler := http.NewContactHandler(contactService)

	router := http.NewRouter(authHandler, predictHandler, contactHandler, tokens, userRepo, zapLogger)

	zapLogger.Info("server is starting", zap.String("address", options.Addr))
	if err := nethttp.ListenAndServe(options.Addr, router); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
