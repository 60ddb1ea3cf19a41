package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sor/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Telegram      TelegramConfig
	AI            AIConfig
	Pipeline      PipelineConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"sor"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig is optional: with no brokers configured the stage-event audit
// stream is disabled.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_STAGE_EVENTS_TOPIC" default:"sor.stage-events"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// TelegramConfig is optional: with no token configured approval notifications
// are disabled.
type TelegramConfig struct {
	BotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	AdminChatID int64  `envconfig:"TELEGRAM_ADMIN_CHAT_ID"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.AdminChatID != 0
}

type AIConfig struct {
	ClaudeKey       string        `envconfig:"CLAUDE_API_KEY"`
	OpenAIKey       string        `envconfig:"OPENAI_API_KEY"`
	DefaultProvider string        `envconfig:"DEFAULT_AI_PROVIDER" default:"claude"`
	DefaultModel    string        `envconfig:"DEFAULT_AI_MODEL" default:"claude-sonnet-4-20250514"`
	RequestTimeout  time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"120s"`
	ReqPerMinute    float64       `envconfig:"AI_REQ_PER_MINUTE" default:"50"`
	Burst           int           `envconfig:"AI_RATE_BURST" default:"10"`
}

// PipelineConfig holds the stage-run tuning knobs.
type PipelineConfig struct {
	StaggerDelay     time.Duration `envconfig:"PIPELINE_STAGGER_DELAY" default:"5s"`
	RetryBackoffBase time.Duration `envconfig:"PIPELINE_RETRY_BACKOFF" default:"2s"`
	MaxRetries       int           `envconfig:"PIPELINE_MAX_RETRIES" default:"5"`
	ProbeTemperature float64       `envconfig:"PIPELINE_PROBE_TEMPERATURE" default:"0.2"`
	MaxTokens        int           `envconfig:"PIPELINE_MAX_TOKENS" default:"4096"`
	RunLockTTL       time.Duration `envconfig:"PIPELINE_RUN_LOCK_TTL" default:"30m"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
