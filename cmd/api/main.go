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

	"github.com/acesso-api/internal/codestore"
	"github.com/acesso-api/internal/config"
	"github.com/acesso-api/internal/infrastructure/delivery"
	"github.com/acesso-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/acesso-api/internal/infrastructure/jwt"
	s3infra "github.com/acesso-api/internal/infrastructure/s3"
	"github.com/acesso-api/internal/infrastructure/sheets"
	transporthttp "github.com/acesso-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	jwtProvider, err := jwtinfra.NewProvider(cfg.SessionSecret, time.Duration(cfg.SessionTTL)*time.Hour)
	if err != nil {
		log.Fatalf("session provider: %v", err)
	}

	directory, err := sheets.NewDirectory(ctx, cfg)
	if err != nil {
		log.Fatalf("subscriber directory: %v", err)
	}

	// AWS clients are shared by the code store (dynamo backend), the report
	// metadata table and the report file bucket.
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	var codes codestore.Store
	switch cfg.CodeStoreBackend {
	case "dynamo":
		codes = dynamo.NewCodeRepo(dynamoClient, cfg.DynamoTables.AccessCodes)
	default:
		// Single-instance deployments keep codes in memory; they vanish on
		// restart, which is acceptable for a 30-minute artifact.
		codes = codestore.NewMemory()
	}

	var provider delivery.Provider
	switch cfg.DeliveryProvider {
	case "smtp":
		provider = delivery.NewSMTP(cfg)
	case "sns":
		sms, err := delivery.NewSMS(cfg)
		if err != nil {
			log.Fatalf("sns provider: %v", err)
		}
		provider = sms
	default:
		provider = delivery.NewBrevo(cfg)
	}
	gateway := delivery.NewGateway(provider)

	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	deps := &transporthttp.Deps{
		Directory:   directory,
		CodeStore:   codes,
		Gateway:     gateway,
		JWTProvider: jwtProvider,
		ReportRepo:  dynamo.NewReportRepo(dynamoClient, cfg.DynamoTables.Reports),
		ObjectStore: s3Store,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
