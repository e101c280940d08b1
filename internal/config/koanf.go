package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/smartpath/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

// Load layers defaults, an optional YAML file and environment variables (highest priority).
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file; an empty path skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// legacy names kept from the original deployment scripts
var envMappings = map[string]string{
	"port":                "server.port",
	"api_port":            "server.port",
	"cors_origins":        "server.cors_origins",
	"neo4j_user":          "neo4j.user",
	"neo4j_uri":           "neo4j.uri",
	"neo4j_password":      "neo4j.password",
	"neo4j_database":      "neo4j.database",
	"neo4j_max_pool_size": "neo4j.max_pool_size",
	"jwt_secret_key":      "auth.jwt_secret",
	"secret_key":          "auth.jwt_secret",
	"log_mode":            "log.mode",
	"log_level":           "log.level",
	"log_hash_salt":       "log.hash_salt",
	"log_redaction":       "log.redact",
	"otel_enabled":        "otel.enabled",
	"otel_sampler_ratio":  "otel.sample_ratio",

	"otel_exporter_otlp_endpoint": "otel.endpoint",
	"otel_exporter_otlp_insecure": "otel.insecure",
}

var envSections = map[string]bool{
	"server":    true,
	"neo4j":     true,
	"redis":     true,
	"reference": true,
	"learning":  true,
	"knowledge": true,
	"recommend": true,
	"auth":      true,
	"breaker":   true,
	"ratelimit": true,
}

// envTransformFunc maps env names to koanf paths: NEO4J_TIMEOUT -> neo4j.timeout,
// LEARNING_MAX_DEPTH -> learning.max_depth. Unknown variables are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" || !envSections[section] {
		return ""
	}
	return section + "." + rest
}
