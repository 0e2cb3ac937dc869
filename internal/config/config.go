package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AI       AIConfig
	Log      LogConfig
	Seed     SeedConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
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
	DB       int
	TTL      time.Duration
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

type AIConfig struct {
	Enabled       bool
	APIKey        string
	Model         string
	Timeout       time.Duration
	Temperature   float32
	RatePerMinute int
	Burst         int
	Breaker       BreakerConfig
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("DB_POOL_MAX_CONNS", 10)
	v.SetDefault("DB_POOL_MIN_CONNS", 1)
	v.SetDefault("DB_POOL_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute)
	v.SetDefault("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", 600)

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)

	v.SetDefault("AI_ENABLED", false)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("AI_TIMEOUT", 8*time.Second)
	v.SetDefault("AI_TEMPERATURE", 0.2)
	v.SetDefault("AI_RATE_PER_MINUTE", 60)
	v.SetDefault("AI_BURST", 5)
	v.SetDefault("AI_BREAKER_MAX_REQUESTS", 3)
	v.SetDefault("AI_BREAKER_INTERVAL", time.Minute)
	v.SetDefault("AI_BREAKER_TIMEOUT", 30*time.Second)
	v.SetDefault("AI_BREAKER_MIN_REQUESTS", 5)
	v.SetDefault("AI_BREAKER_FAILURE_RATIO", 0.6)

	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)
}

// Load reads configuration from the environment. Variables from a .env
// file must already be loaded by the caller.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{}
	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      seconds(v, "REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     opt("JWT_ACCESS_SECRET"),
		RefreshSecret:    opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.AI = AIConfig{
		Enabled:       v.GetBool("AI_ENABLED"),
		APIKey:        opt("GEMINI_API_KEY"),
		Model:         opt("GEMINI_MODEL"),
		Timeout:       v.GetDuration("AI_TIMEOUT"),
		Temperature:   float32(v.GetFloat64("AI_TEMPERATURE")),
		RatePerMinute: v.GetInt("AI_RATE_PER_MINUTE"),
		Burst:         v.GetInt("AI_BURST"),
		Breaker: BreakerConfig{
			MaxRequests:  v.GetUint32("AI_BREAKER_MAX_REQUESTS"),
			Interval:     v.GetDuration("AI_BREAKER_INTERVAL"),
			Timeout:      v.GetDuration("AI_BREAKER_TIMEOUT"),
			MinRequests:  v.GetUint32("AI_BREAKER_MIN_REQUESTS"),
			FailureRatio: v.GetFloat64("AI_BREAKER_FAILURE_RATIO"),
		},
	}
	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("LOG_JSON"),
		Debug: v.GetBool("LOG_DEBUG"),
	}

	cfg.Seed = SeedConfig{
		AdminEmail:    opt("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// seconds accepts either a Go duration ("10m") or a bare number of seconds.
func seconds(v *viper.Viper, key string) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	n := v.GetInt(key)
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
