package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ordering/cmd"
	"ordering/internal/adapters/out/postgres/migrations"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/rs/cors"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := getConfigs()
	logger := newLogger(configs)

	if err := migrations.Up(configs.MigrationURL()); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{
		Logger:         gorm_logger.Default.LogMode(gorm_logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer app.Close()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err = startWebServer(ctx, &app, configs, logger); err != nil {
		logger.Error("web server stopped with error", "error", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	return cmd.Config{
		AppEnv:   envOr("APP_ENV", cmd.EnvDevelopment),
		HTTPPort: envOr("HTTP_PORT", "8080"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOr("DB_NAME", "ordering"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		JWTSecret: requiredEnv("JWT_SECRET"),

		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		BankName:            os.Getenv("BANK_NAME"),
		BankAccountNumber:   os.Getenv("BANK_ACCOUNT_NUMBER"),
		BankAccountHolder:   os.Getenv("BANK_ACCOUNT_HOLDER"),
		NotificationTimeout: durationEnv("NOTIFICATION_TIMEOUT", 5*time.Second),

		AutoDeliveryDelayDev:     durationEnv("AUTO_DELIVERY_DELAY_DEV", 2*time.Minute),
		AutoDeliveryDelayProd:    durationEnv("AUTO_DELIVERY_DELAY_PROD", 45*time.Minute),
		AutoDeliveryPollInterval: envOr("AUTO_DELIVERY_POLL_INTERVAL", "@every 10s"),
		OutboxRelayInterval:      envOr("OUTBOX_RELAY_INTERVAL", "@every 30s"),
		TaxRateBasisPoints:       int64(intEnv("TAX_RATE_BASIS_POINTS", 0)),

		RedisAddr:              os.Getenv("REDIS_ADDR"),
		KafkaBrokers:           os.Getenv("KAFKA_BROKERS"),
		KafkaNotificationTopic: envOr("KAFKA_NOTIFICATION_TOPIC", "mail.outgoing"),

		RateLimitPerSecond: floatEnv("RATE_LIMIT_PER_SECOND", 2),
		RateLimitBurst:     intEnv("RATE_LIMIT_BURST", 5),
		CORSAllowedOrigins: csvEnv("CORS_ALLOWED_ORIGINS"),
	}
}

func newLogger(configs cmd.Config) *slog.Logger {
	if configs.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) error {
	e, err := app.CreateRouter(ctx)
	if err != nil {
		return err
	}

	c := cors.New(configs.CORSOptions())

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort),
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", server.Addr, "env", configs.AppEnv)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func requiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s must be set", key)
	}
	return value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return f
}

func csvEnv(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
