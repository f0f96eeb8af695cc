package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.JWT.Secret = "secret"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = 168 * time.Hour
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{name: "missing secret", mutate: func(cfg *Config) { cfg.JWT.Secret = "" }, wantErr: true},
		{name: "bad port", mutate: func(cfg *Config) { cfg.Server.Port = 0 }, wantErr: true},
		{name: "zero ttl", mutate: func(cfg *Config) { cfg.JWT.AccessTokenTTL = 0 }, wantErr: true},
		{
			name: "access outlives refresh",
			mutate: func(cfg *Config) {
				cfg.JWT.AccessTokenTTL = 200 * time.Hour
			},
			wantErr: true,
		},
		{
			name: "kafka enabled without brokers",
			mutate: func(cfg *Config) {
				cfg.Kafka.Enabled = true
				cfg.Kafka.Brokers = nil
			},
			wantErr: true,
		},
		{
			name: "kafka enabled with brokers",
			mutate: func(cfg *Config) {
				cfg.Kafka.Enabled = true
				cfg.Kafka.Brokers = []string{"localhost:9092"}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty yields nil", in: "", want: nil},
		{name: "single", in: "localhost:9092", want: []string{"localhost:9092"}},
		{name: "multiple with spaces", in: "a:9092, b:9092", want: []string{"a:9092", "b:9092"}},
		{name: "trailing comma", in: "a:9092,", want: []string{"a:9092"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.in))
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "localhost", cfg.Cookie.Domain)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}
