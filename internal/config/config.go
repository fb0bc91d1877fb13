package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config contains server configuration parameters.
type Config struct {
	Log          Log          `envPrefix:"LOG_"`
	HTTP         HTTP         `envPrefix:"HTTP_"`
	Auth         Auth         `envPrefix:"AUTH_"`
	SessionName  string       `env:"SESSION_NAME" envDefault:"session_id" validate:"required"`
	BcryptCost   int          `env:"BCRYPT_COST" envDefault:"10" validate:"gte=4,lte=31"`
	StoreDriver  string       `env:"STORE_DRIVER" envDefault:"postgres" validate:"oneof=postgres memory"`
	Database     Database     `envPrefix:"DATABASE_"`
	PersonalData PersonalData `envPrefix:"PERSONAL_DATA_DB_"`
}

// Log contains logger parameters.
type Log struct {
	Level        int      `env:"LEVEL" envDefault:"0"`
	Format       string   `env:"FORMAT" envDefault:"line" validate:"oneof=line text json"`
	Name         string   `env:"NAME" envDefault:"user_data"`
	RedactFields []string `env:"REDACT_FIELDS" envSeparator:"," envDefault:"email,ssn,password,credit_card,phone_number"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Address            string `env:"ADDRESS" envDefault:":5000"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Auth selects how requests are authenticated.
type Auth struct {
	Type          string   `env:"TYPE" envDefault:"session_db" validate:"oneof=basic session session_db"`
	ExcludedPaths []string `env:"EXCLUDED_PATHS" envSeparator:"," envDefault:"/,/status,/metrics,/users,/sessions,/profile,/reset_password,/auth_session/login"`
}

// Database contains database connection parameters.
type Database struct {
	DSN string `env:"DSN"`
}

// PersonalData holds the discrete connection settings used when no DSN is set.
type PersonalData struct {
	Username string `env:"USERNAME" envDefault:"root"`
	Password string `env:"PASSWORD"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Name     string `env:"NAME"`
}

// NewConfig loads configuration from environment variables.
// Without arguments an optional .env file in the working directory is
// read first; named files must exist. Variables already set in the
// environment take precedence over file values.
func NewConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DSN returns the postgres connection string: DATABASE_DSN when set,
// otherwise one assembled from the PERSONAL_DATA_DB_* settings.
func (c *Config) DSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PersonalData.Username, c.PersonalData.Password),
		Host:     c.PersonalData.Host,
		Path:     "/" + c.PersonalData.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
