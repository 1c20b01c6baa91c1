package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	AppEnv   string
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	AdminEmail          string
	BankName            string
	BankAccountNumber   string
	BankAccountHolder   string
	NotificationTimeout time.Duration

	AutoDeliveryDelayDev     time.Duration
	AutoDeliveryDelayProd    time.Duration
	AutoDeliveryPollInterval string
	OutboxRelayInterval      string
	TaxRateBasisPoints       int64

	RedisAddr              string
	KafkaBrokers           string
	KafkaNotificationTopic string

	RateLimitPerSecond float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// DSN is the PostgreSQL connection string used by gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// MigrationURL is the same database in the URL form golang-migrate expects.
func (c Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSslMode)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// AutoDeliveryDelay is the delay of the running environment.
func (c Config) AutoDeliveryDelay() time.Duration {
	if c.IsProduction() {
		return c.AutoDeliveryDelayProd
	}
	return c.AutoDeliveryDelayDev
}

// CORSOptions allows credentialed requests only from the configured origins.
// Without any, every origin may call the API but browsers send no cookies or
// auth headers cross-site.
func (c Config) CORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: len(c.CORSAllowedOrigins) > 0,
	}
}
