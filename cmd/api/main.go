package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/snapcloud/identity-api/internal/config"
	"github.com/snapcloud/identity-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/snapcloud/identity-api/internal/infrastructure/jwt"
	"github.com/snapcloud/identity-api/internal/infrastructure/mail"
	"github.com/snapcloud/identity-api/internal/infrastructure/sendgrid"
	"github.com/snapcloud/identity-api/internal/infrastructure/smtp"
	"github.com/snapcloud/identity-api/internal/pkg/otpstore"
	transporthttp "github.com/snapcloud/identity-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap the DynamoDB users table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.UsersTable)

	// Signing keys are loaded once here and held for the process lifetime.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider not available: %v", err)
	}

	// Mail: SendGrid primary when configured, SMTP fallback.
	var primary mail.Mailer
	if cfg.SendGridAPIKey != "" {
		primary = sendgrid.NewMailer(cfg)
	}
	dispatcher := mail.NewDispatcher(primary, smtp.NewMailer(cfg))

	// Pending verification codes live in memory for the configured TTL.
	codes := otpstore.New(cfg.OTPTTL)
	codes.StartSweeper(ctx, time.Minute)

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.UsersTable),
		OTPStore:    codes,
		Mailer:      dispatcher,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
