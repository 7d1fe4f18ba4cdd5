package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int    `mapstructure:"REDIS_CACHE_DB"`
	RedisMemoryQueueDB int    `mapstructure:"REDIS_MEMORY_QUEUE_DB"`

	// Scheduling horizon.
	HorizonDays int `mapstructure:"HORIZON_DAYS"`

	// External memory service (mem0-style REST API).
	MemoryServiceURL    string `mapstructure:"MEMORY_SERVICE_URL"`
	MemoryServiceAPIKey string `mapstructure:"MEMORY_SERVICE_API_KEY"`
	MemoryTimeoutMs     int    `mapstructure:"MEMORY_TIMEOUT_MS"`
	MemoryContextTTLSec int    `mapstructure:"MEMORY_CONTEXT_TTL_SEC"`
	MemoryTopK          int    `mapstructure:"MEMORY_TOP_K"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_MEMORY_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "swiftmotors")
	viper.SetDefault("HORIZON_DAYS", 7)
	viper.SetDefault("MEMORY_SERVICE_URL", "http://localhost:8765")
	viper.SetDefault("MEMORY_SERVICE_API_KEY", "")
	viper.SetDefault("MEMORY_TIMEOUT_MS", 2000)
	viper.SetDefault("MEMORY_CONTEXT_TTL_SEC", 300)
	viper.SetDefault("MEMORY_TOP_K", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// A zero or negative horizon leaves nothing bookable.
	if AppConfig.HorizonDays < 1 {
		log.Printf("Invalid HORIZON_DAYS %d, using 7", AppConfig.HorizonDays)
		AppConfig.HorizonDays = 7
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
