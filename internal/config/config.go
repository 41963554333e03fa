package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application level configuration.
// Values come from defaults, then an optional YAML file (CONFIG_FILE), then environment variables.
type Config struct {
	ServerPort  string `yaml:"server_port"`
	MySQLDSN    string `yaml:"mysql_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPass   string `yaml:"redis_password"`
	JWTSecret   string `yaml:"jwt_secret"`
	SwaggerHost string `yaml:"swagger_host"`
	LogLevel    string `yaml:"log_level"`
	ResetDB     bool   `yaml:"reset_db"`

	Chat    ChatConfig    `yaml:"chat"`
	Storage StorageConfig `yaml:"storage"`
}

// ChatConfig configures the OpenRouter chat proxy.
type ChatConfig struct {
	APIKey      string        `yaml:"api_key"`
	URL         string        `yaml:"url"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	TopP        float64       `yaml:"top_p"`
	Timeout     time.Duration `yaml:"timeout"`
	SiteURL     string        `yaml:"site_url"`
	SiteName    string        `yaml:"site_name"`
}

// StorageConfig configures the S3-compatible bucket for featured images.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerPort: "8080",
		MySQLDSN:   "user:password@tcp(localhost:3306)/devblog?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:  "localhost:6379",
		JWTSecret:  "change-me",
		LogLevel:   "info",
		Chat: ChatConfig{
			URL:         "https://openrouter.ai/api/v1/chat/completions",
			Model:       "openai/gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   200,
			TopP:        0.95,
			Timeout:     15 * time.Second,
			SiteURL:     "http://localhost:8000",
			SiteName:    "DevBlog",
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
	}
}

// Load builds Config from defaults, the optional CONFIG_FILE and the environment.
func Load() *Config {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}
	cfg.applyEnv()
	return cfg
}

// MergeFile overlays values from a YAML file onto c.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.MySQLDSN = getEnv("MYSQL_DSN", c.MySQLDSN)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.ResetDB = getEnvBool("RESET_DB", c.ResetDB)

	c.Chat.APIKey = getEnv("OPENROUTER_API_KEY", c.Chat.APIKey)
	c.Chat.URL = getEnv("OPENROUTER_URL", c.Chat.URL)
	c.Chat.Model = getEnv("OPENROUTER_MODEL", c.Chat.Model)
	c.Chat.Timeout = getEnvDuration("CHAT_TIMEOUT", c.Chat.Timeout)
	c.Chat.SiteURL = getEnv("SITE_URL", c.Chat.SiteURL)
	c.Chat.SiteName = getEnv("SITE_NAME", c.Chat.SiteName)

	c.Storage.Endpoint = getEnv("S3_ENDPOINT", c.Storage.Endpoint)
	c.Storage.Region = getEnv("S3_REGION", c.Storage.Region)
	c.Storage.Bucket = getEnv("S3_BUCKET", c.Storage.Bucket)
	c.Storage.AccessKey = getEnv("S3_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("S3_SECRET_KEY", c.Storage.SecretKey)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("15s") or a bare number of seconds ("15").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
