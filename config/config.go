package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the planner service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Ratings   RatingsConfig   `mapstructure:"ratings"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug     bool   `mapstructure:"debug"`
	LogLevel  string `mapstructure:"log_level"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// StorageConfig groups database connections
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a postgres connection string from either the url field or the
// individual host settings.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.DBName == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Pass string `mapstructure:"pass"`
	DB   int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", r.Host, port)
}

// LLMConfig configures the generative step provider (Groq-compatible API)
type LLMConfig struct {
	Type    string        `mapstructure:"type"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig configures the sentence-embedding provider
type EmbeddingConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RatingsConfig controls the live-ratings cache
type RatingsConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url"`
	TTLSeconds       int    `mapstructure:"ttl_seconds"`
	FailRetrySeconds int    `mapstructure:"fail_retry_seconds"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	RenderFallback   bool   `mapstructure:"render_fallback"`
}

func (r RatingsConfig) TTL() time.Duration       { return time.Duration(r.TTLSeconds) * time.Second }
func (r RatingsConfig) FailRetry() time.Duration { return time.Duration(r.FailRetrySeconds) * time.Second }
func (r RatingsConfig) Timeout() time.Duration   { return time.Duration(r.TimeoutSeconds) * time.Second }

// SchedulerConfig controls background refresh of ratings and indices
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RefreshCron string `mapstructure:"refresh_cron"`
	RebuildCron string `mapstructure:"rebuild_cron"`
}

// EnrichConfig controls the offline description enrichment command
type EnrichConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max_chars"`
}

func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.listen", ":10002")
	viper.SetDefault("llm.type", "groq")
	viper.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("llm.model", "llama3-70b-8192")
	viper.SetDefault("llm.timeout", 15*time.Second)
	viper.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.timeout", 30*time.Second)
	viper.SetDefault("ratings.enabled", true)
	viper.SetDefault("ratings.url", "https://artificialanalysis.ai/leaderboards/models")
	viper.SetDefault("ratings.ttl_seconds", 6*60*60)
	viper.SetDefault("ratings.fail_retry_seconds", 600)
	viper.SetDefault("ratings.timeout_seconds", 5)
	viper.SetDefault("scheduler.refresh_cron", "0 */6 * * *")
	viper.SetDefault("scheduler.rebuild_cron", "30 3 * * *")
	viper.SetDefault("enrich.timeout", 20*time.Second)
	viper.SetDefault("enrich.max_chars", 1200)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("TOOLPLANNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// env-only deployments run without a config file
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// conventional env vars win over empty config values
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if config.Embedding.APIKey == "" {
		config.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return &config
}
