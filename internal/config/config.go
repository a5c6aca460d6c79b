package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Jobs   JobsConfig
	DocAI  DocAIConfig
	Gemini GeminiConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the PDF blob store.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// JobsConfig holds job dispatcher settings.
type JobsConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	TimeoutSecs int `mapstructure:"timeout_secs"`
}

// DocAIConfig holds Google Document AI OCR provider settings.
type DocAIConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Location    string `mapstructure:"location"`
	ProcessorID string `mapstructure:"processor_id"`
	AccessToken string `mapstructure:"access_token"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// GeminiConfig holds Gemini comparison provider settings.
type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Load reads configuration from environment variables with the DOCDIFF_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docdiff")
	v.SetDefault("db.password", "docdiff_secret")
	v.SetDefault("db.name", "docdiff_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docdiff-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Jobs defaults
	v.SetDefault("jobs.concurrency", 5)
	v.SetDefault("jobs.timeout_secs", 300)

	// Document AI defaults
	v.SetDefault("docai.project_id", "")
	v.SetDefault("docai.location", "us")
	v.SetDefault("docai.processor_id", "")
	v.SetDefault("docai.access_token", "")
	v.SetDefault("docai.timeout_secs", 120)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-pro")
	v.SetDefault("gemini.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "DOCDIFF_SERVER_PORT",
		"server.read_timeout":  "DOCDIFF_SERVER_READ_TIMEOUT",
		"server.write_timeout": "DOCDIFF_SERVER_WRITE_TIMEOUT",
		"server.environment":   "DOCDIFF_SERVER_ENVIRONMENT",
		"db.host":              "DOCDIFF_DB_HOST",
		"db.port":              "DOCDIFF_DB_PORT",
		"db.user":              "DOCDIFF_DB_USER",
		"db.password":          "DOCDIFF_DB_PASSWORD",
		"db.name":              "DOCDIFF_DB_NAME",
		"db.sslmode":           "DOCDIFF_DB_SSLMODE",
		"db.max_open":          "DOCDIFF_DB_MAX_OPEN",
		"db.max_idle":          "DOCDIFF_DB_MAX_IDLE",
		"s3.region":            "DOCDIFF_S3_REGION",
		"s3.bucket":            "DOCDIFF_S3_BUCKET",
		"s3.endpoint":          "DOCDIFF_S3_ENDPOINT",
		"s3.access_key":        "DOCDIFF_S3_ACCESS_KEY",
		"s3.secret_key":        "DOCDIFF_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "DOCDIFF_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":    "DOCDIFF_S3_PRESIGN_EXPIRY",
		"log.level":            "DOCDIFF_LOG_LEVEL",
		"log.format":           "DOCDIFF_LOG_FORMAT",
		"cors.allowed_origins": "DOCDIFF_CORS_ALLOWED_ORIGINS",
		"jobs.concurrency":     "DOCDIFF_JOBS_CONCURRENCY",
		"jobs.timeout_secs":    "DOCDIFF_JOBS_TIMEOUT_SECS",
		"docai.project_id":     "DOCDIFF_DOCAI_PROJECT_ID",
		"docai.location":       "DOCDIFF_DOCAI_LOCATION",
		"docai.processor_id":   "DOCDIFF_DOCAI_PROCESSOR_ID",
		"docai.access_token":   "DOCDIFF_DOCAI_ACCESS_TOKEN",
		"docai.timeout_secs":   "DOCDIFF_DOCAI_TIMEOUT_SECS",
		"gemini.api_key":       "DOCDIFF_GEMINI_API_KEY",
		"gemini.model":         "DOCDIFF_GEMINI_MODEL",
		"gemini.timeout_secs":  "DOCDIFF_GEMINI_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCDIFF_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCDIFF_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Jobs = JobsConfig{
		Concurrency: v.GetInt("jobs.concurrency"),
		TimeoutSecs: v.GetInt("jobs.timeout_secs"),
	}
	cfg.DocAI = DocAIConfig{
		ProjectID:   v.GetString("docai.project_id"),
		Location:    v.GetString("docai.location"),
		ProcessorID: v.GetString("docai.processor_id"),
		AccessToken: v.GetString("docai.access_token"),
		TimeoutSecs: v.GetInt("docai.timeout_secs"),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:      v.GetString("gemini.api_key"),
		Model:       v.GetString("gemini.model"),
		TimeoutSecs: v.GetInt("gemini.timeout_secs"),
	}

	return cfg, nil
}
