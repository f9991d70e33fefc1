package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Storage drivers
const (
	StorageGCS    = "gcs"
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// Broker drivers
const (
	BrokerPubSub = "pubsub"
	BrokerKafka  = "kafka"
	BrokerLocal  = "local"
)

// Store drivers
const (
	StoreSpanner = "spanner"
	StoreMemory  = "memory"
)

type Config struct {
	HTTP      HTTPConfig
	GRPC      GRPCConfig
	Store     StoreConfig
	Storage   StorageConfig
	Broker    BrokerConfig
	Auth      AuthConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Sweeper   SweeperConfig
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// MaxUploadBytes bounds multipart request bodies.
	MaxUploadBytes int64
}

type GRPCConfig struct {
	HealthAddr string
}

type StoreConfig struct {
	Driver       string
	Database     string
	EmulatorHost string
}

type StorageConfig struct {
	Driver        string
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
}

type BrokerConfig struct {
	Driver       string
	ProjectID    string
	Brokers      []string
	ClientID     string
	SASLUsername string
	SASLPassword string
	TLS          bool
	WriteTimeout time.Duration
	ProductTopic string
	ToppingTopic string
}

type AuthConfig struct {
	JWTSecret string
}

type LogConfig struct {
	Mode     string
	Level    string
	Filename string
}

type TelemetryConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
}

type SweeperConfig struct {
	Enabled   bool
	Spec      string
	BatchSize int
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  getDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadBytes:  cast.ToInt64(getEnv("HTTP_MAX_UPLOAD_BYTES", "10485760")),
		},
		GRPC: GRPCConfig{
			HealthAddr: getEnv("GRPC_HEALTH_ADDR", ":9090"),
		},
		Store: StoreConfig{
			Driver:       strings.ToLower(getEnv("STORE_DRIVER", StoreSpanner)),
			Database:     getEnv("SPANNER_DATABASE", "projects/test-project/instances/test-instance/databases/catalog"),
			EmulatorHost: getEnv("SPANNER_EMULATOR_HOST", ""),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
			Bucket:        getEnv("STORAGE_BUCKET", ""),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
		},
		Broker: BrokerConfig{
			Driver:       strings.ToLower(getEnv("BROKER_DRIVER", BrokerLocal)),
			ProjectID:    getEnv("PUBSUB_PROJECT_ID", ""),
			Brokers:      splitList(getEnv("KAFKA_BROKERS", "")),
			ClientID:     getEnv("KAFKA_CLIENT_ID", "catalog-service"),
			SASLUsername: getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword: getEnv("KAFKA_SASL_PASSWORD", ""),
			TLS:          cast.ToBool(getEnv("KAFKA_TLS", "false")),
			WriteTimeout: getDuration("BROKER_WRITE_TIMEOUT", 10*time.Second),
			ProductTopic: getEnv("PRODUCT_TOPIC", "product"),
			ToppingTopic: getEnv("TOPPING_TOPIC", "topping"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Log: LogConfig{
			Mode:     strings.ToLower(getEnv("LOG_MODE", "production")),
			Level:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Filename: getEnv("LOG_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "catalog-service"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Sweeper: SweeperConfig{
			Enabled:   cast.ToBool(getEnv("SWEEPER_ENABLED", "true")),
			Spec:      getEnv("SWEEPER_SPEC", "@every 5m"),
			BatchSize: cast.ToInt(getEnv("SWEEPER_BATCH_SIZE", "100")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects driver combinations that cannot start.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case StoreSpanner:
		if c.Store.Database == "" {
			errs = append(errs, errors.New("SPANNER_DATABASE is required for the spanner store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	switch c.Storage.Driver {
	case StorageGCS, StorageS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("STORAGE_BUCKET is required for the %s driver", c.Storage.Driver))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	switch c.Broker.Driver {
	case BrokerPubSub:
		if c.Broker.ProjectID == "" {
			errs = append(errs, errors.New("PUBSUB_PROJECT_ID is required for the pubsub broker"))
		}
	case BrokerKafka:
		if len(c.Broker.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka broker"))
		}
	case BrokerLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown BROKER_DRIVER %q", c.Broker.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Sweeper.Enabled && c.Sweeper.BatchSize < 1 {
		errs = append(errs, errors.New("SWEEPER_BATCH_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
