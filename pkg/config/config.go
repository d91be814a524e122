package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// devAuthSecret keeps a zero-config dev server bootable. Validate rejects
// it outside dev.
const devAuthSecret = "storeq-dev-secret-do-not-use-in-production"

type RateLimitBucketConfig struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
	BurstSize         int `yaml:"burstSize"`
}

type RateLimitConfig struct {
	Login RateLimitBucketConfig `yaml:"login"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint"`
	OTLPInsecure bool    `yaml:"otlpInsecure"`
	SampleRatio  float64 `yaml:"sampleRatio"`
}

// BootstrapAdminConfig seeds one admin account on first start so a fresh
// deployment has someone who can reach the admin routes.
type BootstrapAdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func (b BootstrapAdminConfig) Enabled() bool {
	return b.Username != "" || b.Email != "" || b.Password != ""
}

type Config struct {
	Port      int    `yaml:"port"`
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	AuthProvider            string `yaml:"authProvider"`
	AuthSecret              string `yaml:"authSecret"`
	AuthIssuer              string `yaml:"authIssuer"`
	TokenTTLMinutes         int    `yaml:"tokenTtlMinutes"`
	AllowedClockSkewSeconds int    `yaml:"allowedClockSkewSeconds"`

	// AuthConfig is the raw provider config handed to the auth registry,
	// assembled by LoadConfig from the flat fields above.
	AuthConfig json.RawMessage `yaml:"-"`

	PersistenceProvider string          `yaml:"persistenceProvider"`
	PersistenceConfig   json.RawMessage `yaml:"-"`
	Namespace           string          `yaml:"namespace"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`
	PostgresDSN   string `yaml:"postgresDsn"`

	LocalAssetsDir string `yaml:"localAssetsDir"`

	RateLimit RateLimitConfig      `yaml:"rateLimit"`
	Tracing   TracingConfig        `yaml:"tracing"`
	Bootstrap BootstrapAdminConfig `yaml:"bootstrapAdmin"`
}

// LoadConfig reads a yaml file, applies environment overrides and defaults,
// and assembles the provider configs.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfigOptional behaves like LoadConfig but treats a missing file as
// an empty one, so a dev server can boot from defaults and environment.
func LoadConfigOptional(filePath string) (*Config, error) {
	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			return LoadConfig(filePath)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	var c Config
	if err := c.finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) finalize() error {
	c.applyEnv()
	c.applyDefaults()
	if err := c.assembleProviderConfigs(); err != nil {
		return err
	}

	log.Printf("storeq config: {Port:%d Env:%s Persistence:%s Auth:%s Redis:%s}\n",
		c.Port, c.Env, c.PersistenceProvider, c.AuthProvider, c.RedisAddr)
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("AUTH_PROVIDER"); v != "" {
		c.AuthProvider = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.AuthSecret = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		c.AuthIssuer = v
	}
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TokenTTLMinutes = n
		}
	}
	if v := os.Getenv("ALLOWED_CLOCK_SKEW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AllowedClockSkewSeconds = n
		}
	}
	if v := os.Getenv("PERSISTENCE_PROVIDER"); v != "" {
		c.PersistenceProvider = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("LOCAL_ASSETS_DIR"); v != "" {
		c.LocalAssetsDir = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		c.Tracing.OTLPEndpoint = v
	}
	if v := os.Getenv("BOOTSTRAP_ADMIN_USERNAME"); v != "" {
		c.Bootstrap.Username = v
	}
	if v := os.Getenv("BOOTSTRAP_ADMIN_EMAIL"); v != "" {
		c.Bootstrap.Email = v
	}
	if v := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"); v != "" {
		c.Bootstrap.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.AuthProvider == "" {
		c.AuthProvider = "hmac"
	}
	if c.TokenTTLMinutes <= 0 {
		c.TokenTTLMinutes = 60
	}
	if c.AllowedClockSkewSeconds < 0 {
		c.AllowedClockSkewSeconds = 0
	}
	if c.PersistenceProvider == "" {
		c.PersistenceProvider = "redis"
	}
	if c.Namespace == "" {
		c.Namespace = "storeq"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.LocalAssetsDir == "" {
		c.LocalAssetsDir = "/tmp/storeq-assets"
	}
	if c.Tracing.SampleRatio <= 0 {
		c.Tracing.SampleRatio = 1.0
	}
	if c.AuthSecret == "" && c.AuthProvider == "hmac" && c.isDev() {
		log.Println("Warning: authSecret not set, using dev default (dev only)")
		c.AuthSecret = devAuthSecret
	}
}

func (c *Config) assembleProviderConfigs() error {
	if len(c.AuthConfig) == 0 && c.AuthProvider == "hmac" {
		raw, err := json.Marshal(map[string]interface{}{
			"secret":           c.AuthSecret,
			"issuer":           c.AuthIssuer,
			"ttlMinutes":       c.TokenTTLMinutes,
			"clockSkewSeconds": c.AllowedClockSkewSeconds,
		})
		if err != nil {
			return fmt.Errorf("assemble auth config: %w", err)
		}
		c.AuthConfig = raw
	}

	if len(c.PersistenceConfig) == 0 {
		var (
			raw []byte
			err error
		)
		switch c.PersistenceProvider {
		case "redis":
			raw, err = json.Marshal(map[string]interface{}{
				"addr":     c.RedisAddr,
				"password": c.RedisPassword,
				"db":       c.RedisDB,
			})
		case "postgres":
			raw, err = json.Marshal(map[string]interface{}{"dsn": c.PostgresDSN})
		default:
			raw = []byte("{}")
		}
		if err != nil {
			return fmt.Errorf("assemble persistence config: %w", err)
		}
		c.PersistenceConfig = raw
	}
	return nil
}

func (c *Config) isDev() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "dev" || env == "test"
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, "logFormat must be json or text")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "logLevel must be debug, info, warn or error")
	}

	if c.AuthProvider == "hmac" && !c.isDev() {
		if len(c.AuthSecret) < 32 {
			errs = append(errs, "authSecret must be at least 32 characters in non-dev")
		}
		if c.AuthSecret == devAuthSecret {
			errs = append(errs, "authSecret must not be the dev default in non-dev")
		}
	}

	if c.PersistenceProvider == "postgres" && strings.TrimSpace(c.PostgresDSN) == "" {
		errs = append(errs, "postgresDsn is required for the postgres provider")
	}

	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.OTLPEndpoint) == "" {
		errs = append(errs, "tracing.otlpEndpoint is required when tracing is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, "tracing.sampleRatio must be between 0 and 1")
	}

	if c.Bootstrap.Enabled() {
		if c.Bootstrap.Username == "" || c.Bootstrap.Email == "" || c.Bootstrap.Password == "" {
			errs = append(errs, "bootstrapAdmin requires username, email and password together")
		} else if len(c.Bootstrap.Password) < 8 {
			errs = append(errs, "bootstrapAdmin.password must be at least 8 characters")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
