package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoadConfigOptionalEmptyPath(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := LoadConfigOptional("")
	if err != nil {
		t.Fatalf("LoadConfigOptional with empty path should not error: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("expected Port=9999 from env, got %d", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected dev default, got %q", cfg.Env)
	}
	if cfg.PersistenceProvider != "redis" {
		t.Errorf("expected redis default provider, got %q", cfg.PersistenceProvider)
	}
}

func TestLoadConfigOptionalFileNotExist(t *testing.T) {
	cfg, err := LoadConfigOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigOptional with missing file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "port: 8080\n  broken indentation\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfigFile(t, `
port: 8081
env: "test"
logLevel: "debug"
authSecret: "0123456789abcdef0123456789abcdef"
tokenTtlMinutes: 15
redisAddr: "redis.internal:6379"
redisPassword: "hunter2"
localAssetsDir: "/srv/assets"
rateLimit:
  login:
    requestsPerMinute: 30
    burstSize: 10
bootstrapAdmin:
  username: "root"
  email: "root@example.com"
  password: "rootpass1"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("expected Port=8081, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug level, got %q", cfg.LogLevel)
	}
	if cfg.TokenTTLMinutes != 15 {
		t.Errorf("expected ttl 15, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.RateLimit.Login.RequestsPerMinute != 30 || cfg.RateLimit.Login.BurstSize != 10 {
		t.Errorf("unexpected rate limit bucket: %+v", cfg.RateLimit.Login)
	}
	if cfg.Bootstrap.Username != "root" {
		t.Errorf("expected bootstrap admin, got %+v", cfg.Bootstrap)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
port: 8080
redisAddr: "file-redis:6379"
redisPassword: "file-password"
authSecret: "file-secret-file-secret-file-secret"
`)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("REDIS_PASSWORD", "env-password")
	t.Setenv("AUTH_SECRET", "env-secret-env-secret-env-secret-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected Port=9090 from env, got %d", cfg.Port)
	}
	if cfg.RedisAddr != "env-redis:6380" {
		t.Errorf("expected env redis addr, got %q", cfg.RedisAddr)
	}
	if cfg.RedisPassword != "env-password" {
		t.Errorf("expected env redis password, got %q", cfg.RedisPassword)
	}
	if cfg.AuthSecret != "env-secret-env-secret-env-secret-env" {
		t.Errorf("expected env auth secret, got %q", cfg.AuthSecret)
	}
}

func TestLoadConfigAssemblesAuthConfig(t *testing.T) {
	path := writeConfigFile(t, `
env: "test"
authSecret: "0123456789abcdef0123456789abcdef"
authIssuer: "storeq-test"
tokenTtlMinutes: 30
allowedClockSkewSeconds: 45
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	var assembled map[string]interface{}
	if err := json.Unmarshal(cfg.AuthConfig, &assembled); err != nil {
		t.Fatalf("auth config is not valid json: %v", err)
	}
	if assembled["secret"] != "0123456789abcdef0123456789abcdef" {
		t.Errorf("expected secret in assembled config, got %v", assembled["secret"])
	}
	if assembled["issuer"] != "storeq-test" {
		t.Errorf("expected issuer, got %v", assembled["issuer"])
	}
	if assembled["ttlMinutes"] != float64(30) {
		t.Errorf("expected ttlMinutes=30, got %v", assembled["ttlMinutes"])
	}
	if assembled["clockSkewSeconds"] != float64(45) {
		t.Errorf("expected clockSkewSeconds=45, got %v", assembled["clockSkewSeconds"])
	}
}

func TestLoadConfigAssemblesPersistenceConfig(t *testing.T) {
	t.Setenv("PERSISTENCE_PROVIDER", "postgres")
	t.Setenv("POSTGRES_DSN", "host=db user=storeq dbname=storeq")

	cfg, err := LoadConfigOptional("")
	if err != nil {
		t.Fatalf("LoadConfigOptional: %v", err)
	}

	var assembled map[string]interface{}
	if err := json.Unmarshal(cfg.PersistenceConfig, &assembled); err != nil {
		t.Fatalf("persistence config is not valid json: %v", err)
	}
	if assembled["dsn"] != "host=db user=storeq dbname=storeq" {
		t.Errorf("expected dsn in assembled config, got %v", assembled["dsn"])
	}
}

func TestDevDefaultsToPlaceholderSecret(t *testing.T) {
	cfg, err := LoadConfigOptional("")
	if err != nil {
		t.Fatalf("LoadConfigOptional: %v", err)
	}
	if cfg.AuthSecret == "" {
		t.Fatal("expected a dev auth secret default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("dev defaults must validate: %v", err)
	}
}

func TestValidateRejectsShortSecretInProd(t *testing.T) {
	path := writeConfigFile(t, `
env: "prod"
authSecret: "too-short"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for short secret in prod")
	}
	if !strings.Contains(err.Error(), "authSecret") {
		t.Fatalf("expected authSecret complaint, got %v", err)
	}
}

func TestValidateRejectsDevSecretInProd(t *testing.T) {
	cfg := &Config{Env: "prod", AuthProvider: "hmac", AuthSecret: devAuthSecret,
		Port: 8080, LogLevel: "info", LogFormat: "json"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for dev secret in prod")
	}
}

func TestValidateRequiresPostgresDSN(t *testing.T) {
	cfg := &Config{Env: "dev", Port: 8080, LogLevel: "info", LogFormat: "json",
		PersistenceProvider: "postgres"}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "postgresDsn") {
		t.Fatalf("expected postgresDsn complaint, got %v", err)
	}
}

func TestValidateBootstrapAdminAllOrNothing(t *testing.T) {
	cfg := &Config{Env: "dev", Port: 8080, LogLevel: "info", LogFormat: "json",
		Bootstrap: BootstrapAdminConfig{Username: "root"}}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "bootstrapAdmin") {
		t.Fatalf("expected bootstrapAdmin complaint, got %v", err)
	}
}

func TestValidateTracingNeedsEndpoint(t *testing.T) {
	cfg := &Config{Env: "dev", Port: 8080, LogLevel: "info", LogFormat: "json",
		Tracing: TracingConfig{Enabled: true, SampleRatio: 0.5}}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "otlpEndpoint") {
		t.Fatalf("expected otlpEndpoint complaint, got %v", err)
	}
}
