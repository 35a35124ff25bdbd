package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Store configuration. StoreDriver is "mongo" or "memory".
	StoreDriver  string        `mapstructure:"STORE_DRIVER"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	DatabaseName string        `mapstructure:"DATABASE_NAME"`
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Per-room reservation lock.
	RoomLockTTL  time.Duration `mapstructure:"ROOM_LOCK_TTL"`
	RoomLockWait time.Duration `mapstructure:"ROOM_LOCK_WAIT"`

	// Payments.
	StripeKey           string  `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string  `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	FrontendURL         string  `mapstructure:"FRONTEND_URL"`
	Currency            string  `mapstructure:"CURRENCY"`
	ServiceFeeRate      float64 `mapstructure:"SERVICE_FEE_RATE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("DATABASE_NAME", "staybook")
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("ROOM_LOCK_TTL", "10s")
	viper.SetDefault("ROOM_LOCK_WAIT", "3s")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("CURRENCY", "inr")
	viper.SetDefault("SERVICE_FEE_RATE", 0.12)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.JWTSecret == "" {
		log.Println("JWT_SECRET not set, using development default (not secure for production)")
		AppConfig.JWTSecret = "staybook-dev-secret"
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesMemoryStore reports whether the in-process store driver is selected.
func UsesMemoryStore() bool {
	return AppConfig.StoreDriver == "memory"
}
