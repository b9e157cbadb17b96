package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Matching MatchingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (c RedisConfig) Addr() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	var err error
	if cfg.Database.ConnectTimeout, err = envDuration("DB_CONNECT_TIMEOUT_SECONDS", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Database.PoolMaxConns, err = envInt32("DB_POOL_MAX_CONNS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.PoolMinConns, err = envInt32("DB_POOL_MIN_CONNS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.PoolMaxConnLifetime, err = envDuration("DB_POOL_MAX_CONN_LIFETIME_SECONDS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.PoolMaxConnIdleTime, err = envDuration("DB_POOL_MAX_CONN_IDLE_SECONDS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.PoolHealthCheckPeriod, err = envDuration("DB_POOL_HEALTH_CHECK_SECONDS", 0); err != nil {
		return Config{}, err
	}

	cfg.Matching, err = loadMatching()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Matching.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func envInt32(key string, def int32) (int32, error) {
	v, err := envInt(key, int(def))
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return time.Duration(v) * time.Second, nil
}
