// Package config loads process configuration from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ahrav/employee-hub/internal/domain/employee"
	"github.com/ahrav/employee-hub/pkg/common/logger"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
// Variables already set in the environment win.
var DefaultEnvFiles = []string{".env", ".env.local"}

// ErrInvalidConfig is returned when a value parses but is not acceptable.
var ErrInvalidConfig = errors.New("invalid configuration")

// DatabaseOptions describes the PostgreSQL connection.
type DatabaseOptions struct {
	URL      string `env:"DATABASE_URL"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	Name     string `env:"POSTGRES_DB" envDefault:"employees"`
	MinConns int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"20"`
}

// ConnectionString returns DATABASE_URL when set, otherwise a URL assembled
// from the POSTGRES_* parts.
func (d DatabaseOptions) ConnectionString() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// TelemetryOptions controls OpenTelemetry export.
type TelemetryOptions struct {
	Enabled           bool    `env:"OTEL_ENABLED" envDefault:"false"`
	ExporterEndpoint  string  `env:"OTEL_EXPORTER_ENDPOINT" envDefault:"localhost:4317"`
	SampleProbability float64 `env:"OTEL_SAMPLE_PROBABILITY" envDefault:"1.0"`
}

// Configuration is the full set of runtime settings.
type Configuration struct {
	Port            int           `env:"PORT" envDefault:"5000"`
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"employee-hub"`
	Environment     string        `env:"DEPLOYMENT_ENVIRONMENT" envDefault:"development"`
	LogLevel        logger.Level  `env:"LOG_LEVEL" envDefault:"info"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"postgres"`
	RunMigrations   bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	FieldPolicy     string        `env:"REQUIRED_FIELD_POLICY" envDefault:"truthy"`
	ExposeErrors    bool          `env:"EXPOSE_STORE_ERRORS" envDefault:"true"`
	DebugAddr       string        `env:"DEBUG_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Database  DatabaseOptions
	Telemetry TelemetryOptions

	policy employee.RequiredFieldPolicy
}

// Load reads any existing env files and then parses the process environment.
func Load(envFiles ...string) (*Configuration, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := new(Configuration)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom parses configuration from environ instead of the process
// environment. No env files are read.
func LoadFrom(environ map[string]string) (*Configuration, error) {
	cfg := new(Configuration)
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

func (c *Configuration) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", ErrInvalidConfig, c.Port)
	}

	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("%w: STORE_DRIVER %q (want %s or %s)",
			ErrInvalidConfig, c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	policy, err := employee.ParsePolicy(c.FieldPolicy)
	if err != nil {
		return fmt.Errorf("%w: REQUIRED_FIELD_POLICY: %w", ErrInvalidConfig, err)
	}
	c.policy = policy

	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("%w: DB_MIN_CONNS %d / DB_MAX_CONNS %d",
			ErrInvalidConfig, c.Database.MinConns, c.Database.MaxConns)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: SHUTDOWN_TIMEOUT must be positive", ErrInvalidConfig)
	}

	return nil
}

// Policy returns the parsed required-field policy.
func (c *Configuration) Policy() employee.RequiredFieldPolicy { return c.policy }

// Addr returns the HTTP listen address.
func (c *Configuration) Addr() string { return ":" + strconv.Itoa(c.Port) }
