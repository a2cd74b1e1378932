package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	logsConfig "github.com/zerok-ai/zk-utils-go/logs/config"
	zkredis "github.com/zerok-ai/zk-utils-go/storage/redis/config"
)

type TracesConfig struct {
	Ttl          int `yaml:"ttl" env:"ZK_TRACES_TTL" env-description:"Ttl in seconds for stored verdicts and payloads"`
	SyncDuration int `yaml:"syncDuration" env-description:"Pipeline sync interval in seconds"`
	BatchSize    int `yaml:"batchSize" env-description:"Pipeline batch size"`
}

type GrpcConfig struct {
	Port             string            `yaml:"port" env:"ZK_GRPC_PORT" env-description:"Grpc server port"`
	ExpectedMetadata map[string]string `yaml:"expectedMetadata" env-description:"Metadata the exporter under test is expected to send"`
}

type BadgerConfig struct {
	Path       string `yaml:"path" env:"ZK_BADGER_PATH" env-description:"Badger data directory"`
	GcDuration int    `yaml:"gcDuration" env-description:"Value log GC interval in seconds"`
}

type VerifyConfig struct {
	SpanNames []string `yaml:"spanNames" env-description:"Span names checked against the canonical expectations"`
}

type OtlpConfig struct {
	Port   string                `yaml:"port" env:"ZK_HTTP_PORT" env-description:"Http server port"`
	Grpc   GrpcConfig            `yaml:"grpc"`
	Logs   logsConfig.LogsConfig `yaml:"logs"`
	Redis  zkredis.RedisConfig   `yaml:"redis"`
	Badger BadgerConfig          `yaml:"badger"`
	Traces TracesConfig          `yaml:"traces"`
	Verify VerifyConfig          `yaml:"verify"`
}

// CreateConfig reads the config file at path, with env overrides applied by
// cleanenv.
func CreateConfig(path string) (*OtlpConfig, error) {
	var cfg OtlpConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns a config usable without a config file, everything on
// defaults and no stores attached.
func DefaultConfig() *OtlpConfig {
	cfg := &OtlpConfig{Logs: logsConfig.LogsConfig{Level: "DEBUG", Color: true}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *OtlpConfig) {
	if cfg.Port == "" {
		cfg.Port = "8147"
	}
	if cfg.Grpc.Port == "" {
		cfg.Grpc.Port = "4317"
	}
	if cfg.Traces.Ttl == 0 {
		cfg.Traces.Ttl = 900
	}
	if cfg.Traces.SyncDuration == 0 {
		cfg.Traces.SyncDuration = 2
	}
	if cfg.Traces.BatchSize == 0 {
		cfg.Traces.BatchSize = 100
	}
	if cfg.Badger.GcDuration == 0 {
		cfg.Badger.GcDuration = 300
	}
	if len(cfg.Verify.SpanNames) == 0 {
		cfg.Verify.SpanNames = []string{"documentFetch"}
	}
}
