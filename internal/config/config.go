package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Payment  PaymentConfig
	Storage  StorageConfig
	JWT      JWTConfig
	OTEL     OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	MaxUploadSizeMB int64
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
}

// FirebaseConfig holds Firebase Admin SDK configuration
type FirebaseConfig struct {
	ProjectID   string
	PrivateKey  string // Base64 encoded
	ClientEmail string
	Bucket      string
}

// PaymentConfig holds the payment microservice configuration. The return
// URLs are passed explicitly into the order flow instead of being read
// from ambient environment at request time.
type PaymentConfig struct {
	BaseURL         string
	APIKey          string
	MerchantID      string
	Locale          string
	ReturnURLWeb    string
	ReturnURLMobile string
}

// StorageConfig selects and configures the file storage backend
type StorageConfig struct {
	Backend  string // "firebase" or "s3"
	Endpoint string // S3-compatible endpoint
	Region   string
	Bucket   string
}

// JWTConfig holds token verification configuration
type JWTConfig struct {
	Secret string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	InstanceID     string
	Token          string
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			MaxUploadSizeMB: getEnvAsInt64("MAX_UPLOAD_SIZE_MB", 10),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "matchpoint"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Firebase: FirebaseConfig{
			ProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
			PrivateKey:  getEnv("FIREBASE_PRIVATE_KEY", ""),
			ClientEmail: getEnv("FIREBASE_CLIENT_EMAIL", ""),
			Bucket:      getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Payment: PaymentConfig{
			BaseURL:         getEnv("PAYMENT_BASE_URL", ""),
			APIKey:          getEnv("PAYMENT_API_KEY", ""),
			MerchantID:      getEnv("PAYMENT_MERCHANT_ID", ""),
			Locale:          getEnv("PAYMENT_LOCALE", "vi"),
			ReturnURLWeb:    getEnv("RETURN_URL_PAYMENT_FOR_WEB", ""),
			ReturnURLMobile: getEnv("RETURN_URL_PAYMENT_FOR_MOBILE", ""),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "firebase"),
			Endpoint: getEnv("S3_ENDPOINT", ""),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Bucket:   getEnv("S3_BUCKET", "matchpoint"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		OTEL: OTELConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "matchpoint-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnv("OTEL_ENVIRONMENT", "development"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Payment.ReturnURLWeb == "" {
		return fmt.Errorf("RETURN_URL_PAYMENT_FOR_WEB is required")
	}
	if c.Payment.ReturnURLMobile == "" {
		return fmt.Errorf("RETURN_URL_PAYMENT_FOR_MOBILE is required")
	}
	if c.Storage.Backend == "firebase" && c.Firebase.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required for firebase storage")
	}
	if c.Storage.Backend == "s3" && c.Storage.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required for s3 storage")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool retrieves an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
