package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking policy.
	Currency           string `mapstructure:"CURRENCY"`
	BookingSessionTTL  int    `mapstructure:"BOOKING_SESSION_TTL_MIN"`
	PaymentRetryWindow int    `mapstructure:"PAYMENT_RETRY_WINDOW_MIN"`
	MinConsultationFee int64  `mapstructure:"BOOKING_MIN_FEE"`
	BookingWindowDays  int    `mapstructure:"BOOKING_WINDOW_DAYS"`

	// External collaborators.
	StripeKey        string `mapstructure:"STRIPE_KEY"`
	CloudinaryURL    string `mapstructure:"CLOUDINARY_URL"`
	FirebaseCredFile string `mapstructure:"FIREBASE_CRED_FILE"`
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
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "lexbook")
	viper.SetDefault("CURRENCY", "INR")
	viper.SetDefault("BOOKING_SESSION_TTL_MIN", 30)
	viper.SetDefault("PAYMENT_RETRY_WINDOW_MIN", 15)
	viper.SetDefault("BOOKING_MIN_FEE", 500)
	viper.SetDefault("BOOKING_WINDOW_DAYS", 7)

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

// SessionTTL returns the Redis TTL applied to booking and signup sessions.
func SessionTTL() time.Duration {
	return time.Duration(AppConfig.BookingSessionTTL) * time.Minute
}

// PaymentRetryWindow is how long a pending_payment appointment may wait for
// payment before the expiry sweep cancels it and frees its slot.
func PaymentRetryWindow() time.Duration {
	return time.Duration(AppConfig.PaymentRetryWindow) * time.Minute
}
