package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"

	TransportDirect = "direct"
	TransportHTTP   = "http"
	TransportLambda = "lambda"
	TransportKafka  = "kafka"
)

type Config struct {
	App       App       `yaml:"app"`
	HTTP      HTTP      `yaml:"http"`
	Log       Log       `yaml:"log"`
	Store     Store     `yaml:"store"`
	Postgres  Postgres  `yaml:"postgres"`
	Redis     Redis     `yaml:"redis"`
	Kafka     Kafka     `yaml:"kafka"`
	AWS       AWS       `yaml:"aws"`
	Events    Events    `yaml:"events"`
	Metrics   Metrics   `yaml:"metrics"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"products-app"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port       string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	EventsPort string `yaml:"events_port" env:"HTTP_EVENTS_PORT" env-default:"8081"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Store selects the backend of both the product table and the event table.
type Store struct {
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"memory"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"user"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"products_db"`
	Migrate  bool   `yaml:"migrate" env:"POSTGRES_MIGRATE" env-default:"true"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"1s"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"product-events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"product-events-recorder"`
}

type AWS struct {
	Region             string `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
	Endpoint           string `yaml:"endpoint" env:"AWS_ENDPOINT_URL"`
	ProductsTable      string `yaml:"products_table" env:"PRODUCTS_DDB" env-default:"products"`
	EventsTable        string `yaml:"events_table" env:"EVENTS_DDB" env-default:"events"`
	EventsFunctionName string `yaml:"events_function_name" env:"PRODUCTS_EVENTS_FUNCTION_NAME" env-default:"ProductsEventFunction"`
}

type Events struct {
	Transport     string        `yaml:"transport" env:"EVENTS_TRANSPORT" env-default:"direct"`
	RecorderURL   string        `yaml:"recorder_url" env:"EVENTS_RECORDER_URL" env-default:"http://localhost:8081/events/products"`
	Timeout       time.Duration `yaml:"timeout" env:"EVENTS_TIMEOUT" env-default:"5s"`
	TTL           time.Duration `yaml:"ttl" env:"EVENTS_TTL" env-default:"300s"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"EVENTS_SWEEP_INTERVAL" env-default:"30s"`
}

type Metrics struct {
	Port string `yaml:"port" env:"METRICS_PORT" env-default:"9091"`
}

type Telemetry struct {
	Enabled    bool    `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint   string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	Insecure   bool    `yaml:"insecure" env:"OTEL_INSECURE" env-default:"true"`
	SampleRate float64 `yaml:"sample_rate" env:"OTEL_SAMPLE_RATE" env-default:"1.0"`
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config env override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres, BackendDynamoDB:
	default:
		return fmt.Errorf("config error: unknown store backend %q", c.Store.Backend)
	}
	switch c.Events.Transport {
	case TransportDirect, TransportHTTP, TransportLambda, TransportKafka:
	default:
		return fmt.Errorf("config error: unknown events transport %q", c.Events.Transport)
	}
	if c.Events.TTL <= 0 {
		return fmt.Errorf("config error: events ttl must be positive")
	}
	return nil
}

// SlogLevel maps Log.Level to a slog level, defaulting to info.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
