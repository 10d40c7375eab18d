// Package config loads runtime settings from .env, an optional config.yaml
// and LEAADO_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultJWTSecret is the signing secret used when none is configured. It is
// only accepted with the memory database driver.
const DefaultJWTSecret = "default_secret_key"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Pitch    PitchConfig    `mapstructure:"pitch"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Leads    LeadsConfig    `mapstructure:"leads"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings. TrustProxy makes the server take
// the client address from X-Forwarded-For / X-Real-IP; enable it only behind
// a proxy that overwrites those headers.
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`
}

// DatabaseConfig selects the lead/user store. Driver is "pgx", "postgres"
// (lib/pq) or "memory".
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Driver          string        `mapstructure:"driver"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type PitchConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	TimeoutMS   int    `mapstructure:"timeout_ms"`
	Concurrency int    `mapstructure:"concurrency"`
}

func (p PitchConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

type StorageConfig struct {
	Driver       string      `mapstructure:"driver"`
	LocalDir     string      `mapstructure:"local_dir"`
	PublicPrefix string      `mapstructure:"public_prefix"`
	MaxFileBytes int64       `mapstructure:"max_file_bytes"`
	MaxFiles     int         `mapstructure:"max_files"`
	AllowedTypes []string    `mapstructure:"allowed_types"`
	MinIO        MinIOConfig `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// QueueConfig enables lead event publishing when AMQPURL is set.
type QueueConfig struct {
	AMQPURL string `mapstructure:"amqp_url"`
}

type LeadsConfig struct {
	StrictTransitions bool `mapstructure:"strict_transitions"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps keys to the environment names the service used before the
// LEAADO_ prefix existed.
var legacyEnv = map[string]string{
	"database.url":     "DATABASE_URL",
	"auth.jwt_secret":  "JWT_SECRET",
	"pitch.base_url":   "KARTIK_BASE_URL",
	"pitch.timeout_ms": "KARTIK_TIMEOUT_MS",
	"server.port":      "PORT",
	"queue.amqp_url":   "AMQP_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "https://leaado-frontend-5kt3.vercel.app"})
	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.token_ttl", 2*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.rate_limit_rps", 5)
	v.SetDefault("auth.rate_limit_burst", 10)
	v.SetDefault("pitch.base_url", "http://44.195.71.139:5001/fill")
	v.SetDefault("pitch.timeout_ms", 8000)
	v.SetDefault("pitch.concurrency", 1)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.public_prefix", "/uploads")
	v.SetDefault("storage.max_file_bytes", 10<<20)
	v.SetDefault("storage.max_files", 10)
	v.SetDefault("storage.allowed_types", []string{
		"text/csv",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/pdf",
	})
	v.SetDefault("storage.minio.bucket", "leads")
	v.SetDefault("storage.minio.region", "us-east-1")
	v.SetDefault("leads.strict_transitions", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEAADO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "LEAADO_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Pitch.Concurrency <= 0 {
		cfg.Pitch.Concurrency = 1
	}
	if cfg.Pitch.TimeoutMS <= 0 {
		cfg.Pitch.TimeoutMS = 8000
	}
	if cfg.Storage.MaxFiles <= 0 {
		cfg.Storage.MaxFiles = 10
	}

	return &cfg, nil
}

// CheckServe rejects settings that are only safe for local development.
func (c *Config) CheckServe() error {
	if c.Database.Driver == "memory" {
		return nil
	}
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret {
		return eris.Errorf("config: auth.jwt_secret must be set when database.driver is %q", c.Database.Driver)
	}
	return nil
}

// InitLogger installs the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
