package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Smile ID (KYC provider) configuration.
	SmilePartnerID   string `mapstructure:"SMILE_PARTNER_ID"`
	SmileAPIKey      string `mapstructure:"SMILE_API_KEY"`
	SmileEnvironment string `mapstructure:"SMILE_ENVIRONMENT"`

	// Company branding shown on verification links.
	CompanyName      string `mapstructure:"COMPANY_NAME"`
	CompanyLogoURL   string `mapstructure:"COMPANY_LOGO_URL"`
	PrivacyPolicyURL string `mapstructure:"PRIVACY_POLICY_URL"`

	// Webhook/backend addressing.
	WebhookURL string `mapstructure:"WEBHOOK_URL"`
	BackendURL string `mapstructure:"BACKEND_URL"`
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
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SMILE_ENVIRONMENT", "sandbox")
	viper.SetDefault("COMPANY_NAME", "AfriMobile")
	viper.SetDefault("COMPANY_LOGO_URL", "")
	viper.SetDefault("PRIVACY_POLICY_URL", "")
	viper.SetDefault("WEBHOOK_URL", "")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The service cannot mint links or verify webhooks without provider credentials.
	if AppConfig.SmilePartnerID == "" {
		log.Fatal("SMILE_PARTNER_ID is required")
	}
	if AppConfig.SmileAPIKey == "" {
		log.Fatal("SMILE_API_KEY is required")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// IsSmileProduction reports whether the provider integration targets the live
// Smile ID environment rather than the sandbox.
func IsSmileProduction() bool {
	return AppConfig.SmileEnvironment == "production"
}

// DefaultCallbackURL resolves the canonical webhook endpoint for verification
// results: WEBHOOK_URL when set, otherwise derived from BACKEND_URL.
func DefaultCallbackURL() string {
	if AppConfig.WebhookURL != "" {
		return AppConfig.WebhookURL
	}
	return AppConfig.BackendURL + "/api/kyc/webhook/smileid"
}
