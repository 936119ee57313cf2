package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from configs/config.yaml and from ALLMARKET_*
// environment variables (dots become underscores, e.g. ALLMARKET_AI_API_KEY).
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	AI       AIConfig       `mapstructure:"ai"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Email    EmailConfig    `mapstructure:"email"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Log      LogConfig      `mapstructure:"log"`
}

type StorageConfig struct {
	BadgerDBPath string        `mapstructure:"path"`
	InMemory     bool          `mapstructure:"in_memory"`
	GCInterval   time.Duration `mapstructure:"gc_interval"`
}

type ServerConfig struct {
	Port               string   `mapstructure:"port"`
	Environment        string   `mapstructure:"environment"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
}

type AIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	ProductCount int           `mapstructure:"product_count"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	// OperatorChatID restricts the bot to one chat. Zero accepts any chat.
	OperatorChatID int64 `mapstructure:"operator_chat_id"`
}

type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
	FromName     string `mapstructure:"from_name"`
}

type ScraperConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from a .env file, configs/config.yaml under
// path, and the environment, in increasing precedence.
func LoadConfig(path string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ALLMARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", "./badger_data")
	v.SetDefault("storage.in_memory", false)
	v.SetDefault("storage.gc_interval", "5m")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.rate_limit_per_minute", 6)
	v.SetDefault("server.rate_limit_burst", 3)

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.product_count", 12)
	v.SetDefault("ai.timeout", "0s")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.operator_chat_id", 0)

	v.SetDefault("email.resend_api_key", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.from_name", "All Market Brasil")

	v.SetDefault("scraper.enabled", false)
	v.SetDefault("scraper.timeout", "30s")

	v.SetDefault("log.level", "info")
}

func validate(cfg *Config) error {
	if !cfg.Storage.InMemory && cfg.Storage.BadgerDBPath == "" {
		return fmt.Errorf("storage.path is required unless storage.in_memory is set")
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if cfg.AI.ProductCount <= 0 {
		return fmt.Errorf("ai.product_count must be positive, got %d", cfg.AI.ProductCount)
	}
	if cfg.Server.RateLimitPerMinute <= 0 || cfg.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("server rate limits must be positive")
	}
	return nil
}
