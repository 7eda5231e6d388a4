package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
)

// DefaultFeatures is the monitored sensor set of the air-production unit.
var DefaultFeatures = []string{"TP2", "TP3", "H1", "Oil_temperature", "DV_pressure"}

// Config holds all configuration for the risk service.
type Config struct {
	Model              ModelConfig   `yaml:"model"`
	Kafka              KafkaConfig   `yaml:"kafka"`
	Tracing            TracingConfig `yaml:"tracing"`
	GRPC               GRPCConfig    `yaml:"grpc"`
	Scoring            ScoringConfig `yaml:"scoring"`
	HTTPPort           string        `yaml:"httpPort"`
	Environment        string        `yaml:"environment"`
	LogLevel           string        `yaml:"logLevel"`
	LogFormat          string        `yaml:"logFormat"`
	BaselineSource     string        `yaml:"baselineSource"`
	MigrationsDir      string        `yaml:"migrationsDir"`
	Features           []string      `yaml:"features"`
	CORSAllowedOrigins []string      `yaml:"corsAllowedOrigins"`
}

// ModelConfig selects the optional classifier backend.
type ModelConfig struct {
	// Source is a file path, an s3:// URI or sagemaker://<endpoint>. Empty disables the classifier.
	Source        string `yaml:"source"`
	AWSRegion     string `yaml:"awsRegion"`
	Classes       []int  `yaml:"classes"`
	PositiveClass int    `yaml:"positiveClass"`
}

// ScoringConfig tunes the risk scorer.
type ScoringConfig struct {
	ZThreshold       float64 `yaml:"zThreshold"`
	Steepness        float64 `yaml:"steepness"`
	Midpoint         float64 `yaml:"midpoint"`
	ClassifierWeight float64 `yaml:"classifierWeight"`
}

// KafkaConfig configures the abnormal-assessment event publisher. No brokers
// disables publishing.
type KafkaConfig struct {
	Topic         string   `yaml:"topic"`
	ClientID      string   `yaml:"clientId"`
	SASLMechanism string   `yaml:"saslMechanism"`
	SASLUsername  string   `yaml:"saslUsername"`
	SASLPassword  string   `yaml:"saslPassword"`
	Brokers       []string `yaml:"brokers"`
	TLS           bool     `yaml:"tls"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	Enabled      bool   `yaml:"enabled"`
}

// GRPCConfig configures the gRPC listener.
type GRPCConfig struct {
	Port        string `yaml:"port"`
	TLSCertFile string `yaml:"tlsCertFile"`
	TLSKeyFile  string `yaml:"tlsKeyFile"`
	Reflection  bool   `yaml:"reflection"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		HTTPPort:       "9090",
		Environment:    "development",
		LogLevel:       "info",
		LogFormat:      "json",
		Features:       append([]string(nil), DefaultFeatures...),
		BaselineSource: "stats_table.json",
		MigrationsDir:  "internal/infrastructure/postgres/migrations",
		Model: ModelConfig{
			PositiveClass: 1,
			Classes:       []int{0, 1},
			AWSRegion:     "us-east-1",
		},
		Scoring: ScoringConfig{
			ZThreshold:       service.DefaultZThreshold,
			Steepness:        service.DefaultSteepness,
			Midpoint:         service.DefaultMidpoint,
			ClassifierWeight: service.DefaultClassifierWeight,
		},
		Kafka:              KafkaConfig{Topic: "maintenance.risk.events", ClientID: "riskd"},
		GRPC:               GRPCConfig{Port: "8090"},
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_PATH (if any) and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := getEnv("CONFIG_PATH", ""); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.overlayEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() error {
	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	c.GRPC.Port = getEnv("GRPC_PORT", c.GRPC.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.Features = getEnvList("FEATURES", c.Features)
	c.BaselineSource = getEnv("BASELINE_SOURCE", c.BaselineSource)
	c.MigrationsDir = getEnv("MIGRATIONS_DIR", c.MigrationsDir)
	c.Model.Source = getEnv("MODEL_SOURCE", c.Model.Source)
	c.Model.AWSRegion = getEnv("AWS_REGION", c.Model.AWSRegion)
	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.ClientID = getEnv("KAFKA_CLIENT_ID", c.Kafka.ClientID)
	c.Kafka.SASLMechanism = getEnv("KAFKA_SASL_MECHANISM", c.Kafka.SASLMechanism)
	c.Kafka.SASLUsername = getEnv("KAFKA_SASL_USERNAME", c.Kafka.SASLUsername)
	c.Kafka.SASLPassword = getEnv("KAFKA_SASL_PASSWORD", c.Kafka.SASLPassword)
	c.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.OTLPEndpoint)
	c.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)
	c.GRPC.TLSCertFile = getEnv("GRPC_TLS_CERT_FILE", c.GRPC.TLSCertFile)
	c.GRPC.TLSKeyFile = getEnv("GRPC_TLS_KEY_FILE", c.GRPC.TLSKeyFile)

	var errs []error
	parse := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	parse(getEnvInt("MODEL_POSITIVE_CLASS", &c.Model.PositiveClass))
	parse(getEnvIntList("MODEL_CLASSES", &c.Model.Classes))
	parse(getEnvFloat("SCORING_Z_THRESHOLD", &c.Scoring.ZThreshold))
	parse(getEnvFloat("SCORING_STEEPNESS", &c.Scoring.Steepness))
	parse(getEnvFloat("SCORING_MIDPOINT", &c.Scoring.Midpoint))
	parse(getEnvFloat("SCORING_CLASSIFIER_WEIGHT", &c.Scoring.ClassifierWeight))
	parse(getEnvBool("TRACING_ENABLED", &c.Tracing.Enabled))
	parse(getEnvBool("GRPC_REFLECTION", &c.GRPC.Reflection))
	parse(getEnvBool("KAFKA_TLS", &c.Kafka.TLS))
	return errors.Join(errs...)
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Features) == 0 {
		errs = append(errs, errors.New("at least one feature must be configured"))
	}
	if c.BaselineSource == "" {
		errs = append(errs, errors.New("baseline source is required"))
	}
	if err := c.ScoringParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		errs = append(errs, errors.New("grpc TLS requires both a certificate and a key file"))
	}
	if c.Kafka.SASLMechanism != "" && c.Kafka.SASLUsername == "" {
		errs = append(errs, errors.New("kafka SASL requires a username"))
	}
	if c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "" {
		errs = append(errs, errors.New("tracing enabled without an OTLP endpoint"))
	}
	return errors.Join(errs...)
}

// ScoringParams converts the scoring section into domain parameters.
func (c *Config) ScoringParams() service.ScoringParams {
	return service.ScoringParams{
		ZThreshold:       c.Scoring.ZThreshold,
		Steepness:        c.Scoring.Steepness,
		Midpoint:         c.Scoring.Midpoint,
		ClassifierWeight: c.Scoring.ClassifierWeight,
	}
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPC.Port)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, dst *int) error {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func getEnvIntList(key string, dst *[]int) error {
	parts := getEnvList(key, nil)
	if parts == nil {
		return nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, n)
	}
	*dst = out
	return nil
}

func getEnvFloat(key string, dst *float64) error {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func getEnvBool(key string, dst *bool) error {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
