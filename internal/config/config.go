package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Neo4j     Neo4jConfig     `koanf:"neo4j"`
	Redis     RedisConfig     `koanf:"redis"`
	Reference ReferenceConfig `koanf:"reference"`
	Learning  LearningConfig  `koanf:"learning"`
	Knowledge KnowledgeConfig `koanf:"knowledge"`
	Recommend RecommendConfig `koanf:"recommend"`
	Auth      AuthConfig      `koanf:"auth"`
	Otel      OtelConfig      `koanf:"otel"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"min=0"`
	APITitle        string        `koanf:"api_title"`
	APIVersion      string        `koanf:"api_version"`
}

type LogConfig struct {
	Mode     string `koanf:"mode" validate:"omitempty,oneof=development dev production prod test"`
	Level    string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Redact   bool   `koanf:"redact"`
	HashSalt string `koanf:"hash_salt"`
}

type Neo4jConfig struct {
	URI         string        `koanf:"uri"`
	User        string        `koanf:"user"`
	Password    string        `koanf:"password"`
	Database    string        `koanf:"database"`
	Timeout     time.Duration `koanf:"timeout" validate:"min=0"`
	MaxPoolSize int           `koanf:"max_pool_size" validate:"min=0"`
}

type RedisConfig struct {
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db" validate:"min=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"min=0"`
	KeyPrefix string        `koanf:"key_prefix"`
}

// ReferenceConfig selects where course profiles (domain mapping + IRT parameters) come from.
// The embedded catalogue is always loaded; a SQL source, when set, replaces its profiles.
type ReferenceConfig struct {
	SnapshotPath string `koanf:"snapshot_path"`
	Driver       string `koanf:"driver" validate:"omitempty,oneof=postgres sqlite"`
	DSN          string `koanf:"dsn" validate:"required_with=Driver"`
}

type LearningConfig struct {
	MaxDepth          int `koanf:"max_depth" validate:"min=0,max=32"`
	DetailConcurrency int `koanf:"detail_concurrency" validate:"min=1,max=64"`
}

type KnowledgeConfig struct {
	StrengthThreshold float64 `koanf:"strength_threshold" validate:"gt=0,lte=1"`
	WeaknessThreshold float64 `koanf:"weakness_threshold" validate:"gte=0,ltfield=StrengthThreshold"`
}

type RecommendConfig struct {
	Jitter     float64 `koanf:"jitter" validate:"gte=0,lte=0.2"`
	DefaultMax int     `koanf:"default_max" validate:"min=1,max=100"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
	Issuer    string `koanf:"issuer"`
}

type OtelConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio" validate:"gte=0,lte=1"`
	ServiceName string  `koanf:"service_name"`
	Environment string  `koanf:"environment"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"min=1"`
	Timeout          time.Duration `koanf:"timeout" validate:"min=0"`
	Interval         time.Duration `koanf:"interval" validate:"min=0"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"rps" validate:"gte=0"`
	Burst             int     `koanf:"burst" validate:"min=0"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			CORSOrigins: []string{
				"http://localhost:8080",
				"http://127.0.0.1:8080",
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  15 * time.Second,
			APITitle:        "SmartPath API",
			APIVersion:      "0.1.0",
		},
		Log: LogConfig{
			Mode:   "development",
			Level:  "debug",
			Redact: true,
		},
		Neo4j: Neo4jConfig{
			User:        "neo4j",
			Timeout:     10 * time.Second,
			MaxPoolSize: 50,
		},
		Redis: RedisConfig{
			CacheTTL:  5 * time.Minute,
			KeyPrefix: "smartpath:catalog:",
		},
		Learning: LearningConfig{
			MaxDepth:          5,
			DetailConcurrency: 8,
		},
		Knowledge: KnowledgeConfig{
			StrengthThreshold: 0.7,
			WeaknessThreshold: 0.4,
		},
		Recommend: RecommendConfig{
			Jitter:     0.03,
			DefaultMax: 5,
		},
		Otel: OtelConfig{
			SampleRatio: 0.1,
			ServiceName: "smartpath",
		},
		Breaker: BreakerConfig{
			FailureThreshold: 3,
			Timeout:          30 * time.Second,
			Interval:         time.Minute,
		},
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints and returns the first problems found, one per line.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value=%v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func (c *Config) Neo4jEnabled() bool { return strings.TrimSpace(c.Neo4j.URI) != "" }

func (c *Config) RedisEnabled() bool { return strings.TrimSpace(c.Redis.Addr) != "" }

func (c *Config) AuthEnabled() bool { return strings.TrimSpace(c.Auth.JWTSecret) != "" }
