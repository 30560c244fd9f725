package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration. Tokens are issued by the external auth provider.
	JWTSecret string

	// Gemini configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Detector selects the stage one implementation: "gemini" or "rekognition".
	Detector string

	// Object storage
	Storage StorageSettings

	// ImageURLPrefixes limits which photo URLs the server downloads. Defaults
	// to the storage public base URL when a bucket is configured.
	ImageURLPrefixes []string

	// RecapTimezone is the IANA zone used to bucket scans into calendar days.
	RecapTimezone string

	// Logging
	LogLevel  string
	LogFormat string
}

// StorageSettings describes the S3 compatible bucket holding scan photos.
type StorageSettings struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

const (
	defaultGeminiModel   = "gemini-2.0-flash-001"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimezone      = "Asia/Jakarta"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads everything from environment variables
func loadCIConfig(cfg *Config) {
	for key, dst := range fieldMap(cfg) {
		*dst = os.Getenv(strings.ToUpper(key))
	}
	// CI secrets use a TEST_ prefix
	if v := os.Getenv("TEST_DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if v := os.Getenv("TEST_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	cfg.RedisDB = atoiOr(os.Getenv("REDIS_DB"), 0)
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	cfg.ImageURLPrefixes = splitList(os.Getenv("IMAGE_URL_PREFIXES"))
}

// loadDevConfig loads a local .env file if present, then environment
// variables, falling back to Docker secrets for anything still unset.
func loadDevConfig(cfg *Config) error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		log.Printf("[Config] No %s file found, using process environment", envFile)
	}

	for key, dst := range fieldMap(cfg) {
		*dst = lookup(key)
	}
	cfg.RedisDB = atoiOr(os.Getenv("REDIS_DB"), 0)
	cfg.CORSOrigins = splitList(lookup("cors_origins"))
	cfg.ImageURLPrefixes = splitList(lookup("image_url_prefixes"))
	return nil
}

// loadProdConfig loads secrets from Docker secrets and plain settings from the environment
func loadProdConfig(cfg *Config) {
	for key, dst := range fieldMap(cfg) {
		if isSecret(key) {
			*dst = readSecret(key)
			continue
		}
		*dst = lookup(key)
	}
	cfg.RedisDB = atoiOr(os.Getenv("REDIS_DB"), 0)
	cfg.CORSOrigins = splitList(lookup("cors_origins"))
	cfg.ImageURLPrefixes = splitList(lookup("image_url_prefixes"))
}

// fieldMap binds secret/env names (lower case) to config fields.
func fieldMap(cfg *Config) map[string]*string {
	return map[string]*string{
		"server_port":        &cfg.ServerPort,
		"server_host":        &cfg.ServerHost,
		"db_host":            &cfg.DBHost,
		"db_port":            &cfg.DBPort,
		"db_user":            &cfg.DBUser,
		"db_password":        &cfg.DBPassword,
		"db_name":            &cfg.DBName,
		"db_ssl_mode":        &cfg.DBSSLMode,
		"redis_host":         &cfg.RedisHost,
		"redis_port":         &cfg.RedisPort,
		"redis_password":     &cfg.RedisPassword,
		"redis_url":          &cfg.RedisURL,
		"jwt_secret":         &cfg.JWTSecret,
		"gemini_api_key":     &cfg.GeminiAPIKey,
		"gemini_model":       &cfg.GeminiModel,
		"gemini_base_url":    &cfg.GeminiBaseURL,
		"detector":           &cfg.Detector,
		"s3_bucket_name":     &cfg.Storage.Bucket,
		"aws_region":         &cfg.Storage.Region,
		"s3_endpoint":        &cfg.Storage.Endpoint,
		"s3_access_key":      &cfg.Storage.AccessKey,
		"s3_secret_key":      &cfg.Storage.SecretKey,
		"s3_public_base_url": &cfg.Storage.PublicBaseURL,
		"recap_timezone":     &cfg.RecapTimezone,
		"log_level":          &cfg.LogLevel,
		"log_format":         &cfg.LogFormat,
	}
}

var secretNames = map[string]bool{
	"db_user":        true,
	"db_password":    true,
	"jwt_secret":     true,
	"redis_password": true,
	"gemini_api_key": true,
	"s3_access_key":  true,
	"s3_secret_key":  true,
}

func isSecret(name string) bool {
	return secretNames[name]
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	if cfg.RedisHost == "" {
		cfg.RedisHost = "localhost"
	}
	if cfg.RedisPort == "" {
		cfg.RedisPort = "6379"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = defaultGeminiBaseURL
	}
	if cfg.Detector == "" {
		cfg.Detector = "gemini"
	}
	if cfg.RecapTimezone == "" {
		cfg.RecapTimezone = defaultTimezone
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if GetEnvironment().IsLocal() {
			cfg.LogFormat = "text"
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
	}
	if len(cfg.ImageURLPrefixes) == 0 && cfg.Storage.Bucket != "" {
		cfg.ImageURLPrefixes = []string{publicBaseURL(cfg.Storage)}
	}
}

// lookup returns the environment variable for name, or the Docker secret of the same name.
func lookup(name string) string {
	if v := os.Getenv(strings.ToUpper(name)); v != "" {
		return v
	}
	return readSecret(name)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func atoiOr(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
