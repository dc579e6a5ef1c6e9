package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Port string `toml:"port"`

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `toml:"env"`

	// DBDriver selects the store: "postgres" (default), "sqlite" or "memory".
	DBDriver string `toml:"db_driver"`

	DBHost    string `toml:"db_host"`
	DBPort    string `toml:"db_port"`
	DBName    string `toml:"db_name"`
	DBUser    string `toml:"db_user"`
	DBPass    string `toml:"db_pass"`
	DBSSLMode string `toml:"db_sslmode"`

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int `toml:"db_max_open_conns"`
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int `toml:"db_max_idle_conns"`

	// SQLitePath is the database file for DB_DRIVER=sqlite (":memory:" allowed).
	SQLitePath string `toml:"sqlite_path"`

	JWTSecret string `toml:"jwt_secret"`

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int `toml:"jwt_expire_hours"`

	BcryptCost int `toml:"bcrypt_cost"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string `toml:"tls_cert_file"`
	TLSKeyFile  string `toml:"tls_key_file"`

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string `toml:"log_format"`
	LogLevel  string `toml:"log_level"`

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`

	// AMQPURL enables ledger event publishing when set.
	AMQPURL      string `toml:"amqp_url"`
	AMQPExchange string `toml:"amqp_exchange"`
	AMQPQueue    string `toml:"amqp_queue"`

	// ConcealForeignExpenses answers 404 instead of 403 for other users' expenses.
	ConcealForeignExpenses bool `toml:"conceal_foreign_expenses"`

	// AuthRatePerMin limits register/login requests per client IP.
	AuthRatePerMin int `toml:"auth_rate_per_min"`
}

func defaults() Config {
	return Config{
		Port:           "8080",
		Env:            "dev",
		DBDriver:       "postgres",
		DBHost:         "localhost",
		DBPort:         "5432",
		DBName:         "expensedb",
		DBUser:         "expenseuser",
		DBPass:         "expensepass",
		DBSSLMode:      "disable",
		DBMaxOpenConns: 25,
		DBMaxIdleConns: 5,
		SQLitePath:     "expenses.db",
		JWTSecret:      DefaultJWTSecret,
		JWTExpireHours: 24,
		BcryptCost:     10,
		LogFormat:      "text",
		LogLevel:       "info",
		AMQPExchange:   "expenses",
		AMQPQueue:      "expense-events",
		AuthRatePerMin: 10,
	}
}

// Load reads .env (if present), then the TOML file named by CONFIG_FILE, then
// environment variables. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)

	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPass = getEnv("DB_PASS", c.DBPass)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)
	c.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns)
	c.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.DBMaxIdleConns)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTExpireHours = getEnvInt("JWT_EXPIRE_HOURS", c.JWTExpireHours)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)

	// Optional TLS configuration for HTTPS.
	c.TLSCertFile = getEnv("TLS_CERT_FILE", c.TLSCertFile)
	c.TLSKeyFile = getEnv("TLS_KEY_FILE", c.TLSKeyFile)

	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = parseCORSOrigins(v)
	}

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.ConcealForeignExpenses = getEnvBool("CONCEAL_FOREIGN_EXPENSES", c.ConcealForeignExpenses)
	c.AuthRatePerMin = getEnvInt("AUTH_RATE_PER_MIN", c.AuthRatePerMin)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be 1-65535, got %q", c.Port))
	}
	switch c.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres, sqlite or memory, got %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.IsProd() && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must not be the default in prod"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod")
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
