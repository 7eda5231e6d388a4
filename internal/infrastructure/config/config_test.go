package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, ":8090", cfg.GRPCAddress())
	assert.Equal(t, config.DefaultFeatures, cfg.Features)
	assert.Equal(t, "stats_table.json", cfg.BaselineSource)
	assert.Equal(t, 1, cfg.Model.PositiveClass)
	assert.Equal(t, []int{0, 1}, cfg.Model.Classes)
	assert.Equal(t, "maintenance.risk.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3.0, cfg.ScoringParams().ZThreshold)
	assert.Equal(t, 0.45, cfg.ScoringParams().ClassifierWeight)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("FEATURES", "TP2, TP3 ,H1")
	t.Setenv("MODEL_SOURCE", "sagemaker://apu-forest")
	t.Setenv("MODEL_CLASSES", "0,1,2")
	t.Setenv("MODEL_POSITIVE_CLASS", "2")
	t.Setenv("SCORING_Z_THRESHOLD", "2.5")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512")
	t.Setenv("KAFKA_SASL_USERNAME", "riskd")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.HTTPPort)
	assert.Equal(t, []string{"TP2", "TP3", "H1"}, cfg.Features)
	assert.Equal(t, "sagemaker://apu-forest", cfg.Model.Source)
	assert.Equal(t, []int{0, 1, 2}, cfg.Model.Classes)
	assert.Equal(t, 2, cfg.Model.PositiveClass)
	assert.Equal(t, 2.5, cfg.Scoring.ZThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.GRPC.Reflection)
	assert.True(t, cfg.Kafka.TLS)
	assert.Equal(t, "SCRAM-SHA-512", cfg.Kafka.SASLMechanism)
	assert.Equal(t, "riskd", cfg.Kafka.SASLUsername)
	assert.Equal(t, "riskd", cfg.Kafka.ClientID)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
httpPort: "8181"
baselineSource: s3://apu-baselines/stats_table.json
scoring:
  classifierWeight: 0.3
kafka:
  brokers: [broker:9092]
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := config.Load()
	require.NoError(t, err)

	// Environment wins over the file.
	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, "s3://apu-baselines/stats_table.json", cfg.BaselineSource)
	assert.Equal(t, 0.3, cfg.Scoring.ClassifierWeight)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 1.2, cfg.Scoring.Steepness)
	assert.Equal(t, []string{"broker:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "unparseable float", env: map[string]string{"SCORING_STEEPNESS": "steep"}, wantErr: "SCORING_STEEPNESS"},
		{name: "invalid weight", env: map[string]string{"SCORING_CLASSIFIER_WEIGHT": "1.5"}, wantErr: "classifier weight"},
		{name: "empty features", env: map[string]string{"FEATURES": " , "}, wantErr: "at least one feature"},
		{name: "half TLS config", env: map[string]string{"GRPC_TLS_CERT_FILE": "cert.pem"}, wantErr: "both a certificate and a key"},
		{name: "sasl without username", env: map[string]string{"KAFKA_SASL_MECHANISM": "PLAIN"}, wantErr: "SASL requires a username"},
		{name: "tracing without endpoint", env: map[string]string{"TRACING_ENABLED": "true"}, wantErr: "OTLP endpoint"},
		{name: "missing config file", env: map[string]string{"CONFIG_PATH": "/nonexistent/riskd.yaml"}, wantErr: "reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
