package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port               int           `mapstructure:"PORT"`
	StoreDriver        string        `mapstructure:"STORE_DRIVER"`
	MongoURI           string        `mapstructure:"MONGO_URI"`
	MongoDatabase      string        `mapstructure:"MONGO_DATABASE"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`
	CORSAllowedOrigins string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitRPS       float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
	TrustProxy         bool          `mapstructure:"TRUST_PROXY"`
	JaegerEndpoint     string        `mapstructure:"JAEGER_ENDPOINT"`
	ServiceName        string        `mapstructure:"SERVICE_NAME"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
	ShutdownTimeout    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	DashboardPort      int           `mapstructure:"DASHBOARD_PORT"`
	APIBaseURL         string        `mapstructure:"API_BASE_URL"`
}

var defaults = map[string]any{
	"PORT":                 5000,
	"STORE_DRIVER":         DriverMongo,
	"MONGO_URI":            "mongodb://localhost:27017",
	"MONGO_DATABASE":       "inventory",
	"DATABASE_URL":         "",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"CACHE_TTL":            "30s",
	"CORS_ALLOWED_ORIGINS": "*",
	"RATE_LIMIT_RPS":       10,
	"RATE_LIMIT_BURST":     20,
	"TRUST_PROXY":          false,
	"JAEGER_ENDPOINT":      "",
	"SERVICE_NAME":         "inventory-api",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"SHUTDOWN_TIMEOUT":     "10s",
	"DASHBOARD_PORT":       3000,
	"API_BASE_URL":         "http://localhost:5000",
}

// Load reads configuration from the environment, layered over an optional
// file named by CONFIG_FILE.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverMongo:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Port <= 0 || c.DashboardPort <= 0 {
		return fmt.Errorf("ports must be positive")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings cannot be negative")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c Config) Addr() string          { return fmt.Sprintf(":%d", c.Port) }
func (c Config) DashboardAddr() string { return fmt.Sprintf(":%d", c.DashboardPort) }
