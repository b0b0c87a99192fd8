package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// External clinic backend.
	ClinicAPIBaseURL     string `mapstructure:"CLINIC_API_BASE_URL"`
	ClinicRequestTimeout int    `mapstructure:"CLINIC_REQUEST_TIMEOUT_SECONDS"`

	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr               string `mapstructure:"REDIS_ADDR"`
	RedisPassword           string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB            int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB            int    `mapstructure:"REDIS_QUEUE_DB"`
	RedisTaskDB             int    `mapstructure:"REDIS_TASK_DB"`
	ScheduleCacheTTLSeconds int    `mapstructure:"SCHEDULE_CACHE_TTL_SECONDS"`

	// Payment flow knobs.
	PollIntervalSeconds int `mapstructure:"POLL_INTERVAL_SECONDS"`
	PollMaxAttempts     int `mapstructure:"POLL_MAX_ATTEMPTS"`
	ProofMaxSizeMB      int `mapstructure:"PROOF_MAX_SIZE_MB"`
	ConsultationFee     int `mapstructure:"CONSULTATION_FEE"`
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
	viper.SetDefault("CLINIC_API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("CLINIC_REQUEST_TIMEOUT_SECONDS", 15)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("SCHEDULE_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("POLL_INTERVAL_SECONDS", 5)
	viper.SetDefault("POLL_MAX_ATTEMPTS", 60)
	viper.SetDefault("PROOF_MAX_SIZE_MB", 5)
	viper.SetDefault("CONSULTATION_FEE", 500)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ClinicTimeout returns the outbound request timeout as a duration.
func ClinicTimeout() time.Duration {
	secs := AppConfig.ClinicRequestTimeout
	if secs <= 0 {
		secs = 15
	}
	return time.Duration(secs) * time.Second
}

// PollInterval returns the payment status poll interval as a duration.
func PollInterval() time.Duration {
	secs := AppConfig.PollIntervalSeconds
	if secs <= 0 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}
