package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Mongo       MongoConfig
	Minio       MinioConfig
	Geoapify    GeoapifyConfig
	OpenAI      OpenAIConfig
	Video       VideoConfig
	Client      ClientConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	SSEPort        int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MongoConfig holds MongoDB configuration for medical record documents
type MongoConfig struct {
	URI      string
	Database string
}

// MinioConfig holds object storage configuration for uploaded reports
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GeoapifyConfig holds geolocation provider configuration
type GeoapifyConfig struct {
	APIKey         string
	BaseURL        string
	SearchRadiusM  int
	ResultLimit    int
	RequestTimeout time.Duration
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
}

// VideoConfig holds the video consultation room provider settings
type VideoConfig struct {
	BaseURL    string
	RoomPrefix string
}

// ClientConfig holds settings for the backend API client used by the CLI.
type ClientConfig struct {
	BackendURLs []string
	Timeout     time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment
// variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			SSEPort:        getEnvAsInt("SSE_PORT", 8081),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "arogya_vritti"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "arogya_vritti"),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "medical-reports"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Geoapify: GeoapifyConfig{
			APIKey:         getEnv("GEOAPIFY_API_KEY", ""),
			BaseURL:        getEnv("GEOAPIFY_BASE_URL", "https://api.geoapify.com"),
			SearchRadiusM:  getEnvAsInt("GEOAPIFY_SEARCH_RADIUS_M", 5000),
			ResultLimit:    getEnvAsInt("GEOAPIFY_RESULT_LIMIT", 20),
			RequestTimeout: getEnvAsDuration("GEOAPIFY_TIMEOUT", 8*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Video: VideoConfig{
			BaseURL:    getEnv("VIDEO_BASE_URL", "https://meet.jit.si"),
			RoomPrefix: getEnv("VIDEO_ROOM_PREFIX", "arogya-vritti"),
		},
		Client: ClientConfig{
			BackendURLs: getEnvAsList("BACKEND_URLS", []string{"http://localhost:8080"}),
			Timeout:     getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "arogya-vritti-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port)
	}
	if len(cfg.Client.BackendURLs) == 0 {
		return nil, fmt.Errorf("BACKEND_URLS must list at least one URL")
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
