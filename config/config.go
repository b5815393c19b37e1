package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config is resolved as defaults, then the YAML file named by FORUM_CONFIG,
// then environment variables.
type Config struct {
	ApiPort     string `yaml:"api_port" env:"API_PORT"`
	StoreDriver string `yaml:"store_driver" env:"STORE_DRIVER"`
	Debug       bool   `yaml:"debug" env:"DEBUG"`

	MongoURI      string `yaml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string `yaml:"mongo_database" env:"MONGO_DATABASE"`

	KafkaEnabled            bool   `yaml:"kafka_enabled" env:"KAFKA_ENABLED"`
	KafkaBroker             string `yaml:"kafka_broker" env:"KAFKA_BROKER"`
	KafkaNotificationsTopic string `yaml:"kafka_notifications_topic" env:"KAFKA_NOTIFICATIONS_TOPIC"`
	KafkaDLQTopic           string `yaml:"kafka_dlq_topic" env:"KAFKA_DLQ_TOPIC"`

	DexIssuer          string `yaml:"dex_issuer_url" env:"DEX_ISSUER_URL"`
	ClientID           string `yaml:"dex_client_id" env:"DEX_CLIENT_ID"`
	Audience           string `yaml:"dex_audience" env:"DEX_AUDIENCE"`
	DexOIDCMaxAttempts int    `yaml:"dex_oidc_max_attempts" env:"DEX_OIDC_MAX_ATTEMPTS"`
	DexCACertFile      string `yaml:"dex_ca_cert_file" env:"DEX_CA_CERT_FILE"`
}

func Default() Config {
	return Config{
		ApiPort:                 "8080",
		StoreDriver:             DriverMongo,
		MongoURI:                "mongodb://mongodb:27017",
		MongoDatabase:           "forum",
		KafkaEnabled:            true,
		KafkaBroker:             "kafka:9092",
		KafkaNotificationsTopic: "forum-notifications",
		KafkaDLQTopic:           "forum-notifications-dlq",
		DexIssuer:               "http://dex:5556/dex",
		ClientID:                "forum",
		Audience:                "forum",
		DexOIDCMaxAttempts:      8,
	}
}

// Load resolves the process configuration.
func Load() (Config, error) {
	cfg := Default()
	if path := GetEnv("FORUM_CONFIG", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.ApiPort == "" {
		return fmt.Errorf("api port is required")
	}
	if c.DexOIDCMaxAttempts < 1 {
		return fmt.Errorf("dex oidc max attempts must be positive, got %d", c.DexOIDCMaxAttempts)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// GetEnv returns the value of the environment variable or a default value
func GetEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
