package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Minio     MinioConfig     `yaml:"minio"`
	S3        S3Config        `yaml:"s3"`
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatasetConfig selects where the opinions CSV is read from.
type DatasetConfig struct {
	Source         string `yaml:"source"` // local, minio, s3, http
	Path           string `yaml:"path"`
	HasHeader      *bool  `yaml:"has_header"`
	LoadTimeoutSec int    `yaml:"load_timeout_seconds"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Object    string `yaml:"object"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // optional, for S3-compatible stores
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type HTTPConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

type AuthConfig struct {
	Enabled          bool   `yaml:"enabled"`
	AccessCode       string `yaml:"access_code"`
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

const (
	SourceLocal = "local"
	SourceMinio = "minio"
	SourceS3    = "s3"
	SourceHTTP  = "http"
)

// Load reads the YAML file at path, fills defaults and applies environment
// overrides. A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = SourceLocal
	}
	if cfg.Dataset.Source == SourceLocal && cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "opinions_30.csv"
	}
	if cfg.Dataset.HasHeader == nil {
		header := true
		cfg.Dataset.HasHeader = &header
	}
	if cfg.Dataset.LoadTimeoutSec == 0 {
		cfg.Dataset.LoadTimeoutSec = 60
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
	if cfg.HTTP.TimeoutSec == 0 {
		cfg.HTTP.TimeoutSec = 60
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.RateLimit.Requests == 0 {
		cfg.RateLimit.Requests = 100
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CASEBRIEF_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CASEBRIEF_SOURCE"); v != "" {
		cfg.Dataset.Source = v
	}
	if v := os.Getenv("CASEBRIEF_DATASET"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("CASEBRIEF_ACCESS_CODE"); v != "" {
		cfg.Auth.AccessCode = v
	}
	if v := os.Getenv("CASEBRIEF_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("CASEBRIEF_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" && cfg.S3.AccessKey == "" {
		cfg.S3.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" && cfg.S3.SecretKey == "" {
		cfg.S3.SecretKey = v
	}
}

// Validate checks that the selected dataset source and auth settings are
// usable.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceLocal:
		if c.Dataset.Path == "" {
			return errors.New("dataset.path is required for local source")
		}
	case SourceMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" || c.Minio.Object == "" {
			return errors.New("minio.endpoint, minio.bucket and minio.object are required for minio source")
		}
	case SourceS3:
		if c.S3.Bucket == "" || c.S3.Key == "" {
			return errors.New("s3.bucket and s3.key are required for s3 source")
		}
	case SourceHTTP:
		if c.HTTP.URL == "" {
			return errors.New("http.url is required for http source")
		}
	default:
		return fmt.Errorf("unknown dataset source: %s", c.Dataset.Source)
	}

	if c.Auth.Enabled && (c.Auth.AccessCode == "" || c.Auth.JWTSecret == "") {
		return errors.New("auth.access_code and auth.jwt_secret are required when auth is enabled")
	}
	return nil
}

// HeaderRow reports whether the first CSV row is a header.
func (d DatasetConfig) HeaderRow() bool {
	return d.HasHeader == nil || *d.HasHeader
}
