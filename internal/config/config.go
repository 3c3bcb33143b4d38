package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Evaluation EvaluationConfig `yaml:"evaluation" mapstructure:"evaluation"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key              string  `yaml:"key" mapstructure:"key"`
	Model            string  `yaml:"model" mapstructure:"model"`
	RequestsPerSec   float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	RateLimitBurst   int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DefaultMaxTokens int64   `yaml:"default_max_tokens" mapstructure:"default_max_tokens"`
}

// Timeout returns the per-call LLM timeout.
func (c AnthropicConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GenerationConfig configures the synthesis pipeline.
type GenerationConfig struct {
	BatchSize                  int     `yaml:"batch_size" mapstructure:"batch_size"`
	MaxConcurrency             int     `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	ContextMaxLength           int     `yaml:"context_max_length" mapstructure:"context_max_length"`
	MaxBaseQuestionsPerDoc     int     `yaml:"max_base_questions_per_doc" mapstructure:"max_base_questions_per_doc"`
	SimpleEvolutionCount       int     `yaml:"simple_evolution_count" mapstructure:"simple_evolution_count"`
	MultiContextEvolutionCount int     `yaml:"multi_context_evolution_count" mapstructure:"multi_context_evolution_count"`
	ReasoningEvolutionCount    int     `yaml:"reasoning_evolution_count" mapstructure:"reasoning_evolution_count"`
	ComplexEvolutionCount      int     `yaml:"complex_evolution_count" mapstructure:"complex_evolution_count"`
	Temperature                float64 `yaml:"temperature" mapstructure:"temperature"`
	SummarizeContexts          bool    `yaml:"summarize_contexts" mapstructure:"summarize_contexts"`
}

// EvaluationConfig configures the LLM-as-judge pipeline.
type EvaluationConfig struct {
	MaxConcurrency int   `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	MaxTokens      int64 `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig configures the result cache backend.
type CacheConfig struct {
	RedisURL   string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLSeconds int    `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EVOLSYNTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.requests_per_sec", 10.0)
	v.SetDefault("anthropic.rate_limit_burst", 10)
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("anthropic.default_max_tokens", 1024)
	v.SetDefault("generation.batch_size", 5)
	v.SetDefault("generation.max_concurrency", 8)
	v.SetDefault("generation.context_max_length", 300)
	v.SetDefault("generation.max_base_questions_per_doc", 3)
	v.SetDefault("generation.simple_evolution_count", 3)
	v.SetDefault("generation.multi_context_evolution_count", 2)
	v.SetDefault("generation.reasoning_evolution_count", 2)
	v.SetDefault("generation.complex_evolution_count", 2)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.summarize_contexts", false)
	v.SetDefault("evaluation.max_concurrency", 8)
	v.SetDefault("evaluation.max_tokens", 1024)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("store.path", "evolsynth.db")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
