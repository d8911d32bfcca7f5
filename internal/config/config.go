// Package config loads the service configuration from the environment.
//
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

const EnvProduction = "production"

type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Environment string   `env:"APP_ENV" envDefault:"development"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL    string   `env:"REDIS_URL"`
	Auth        Auth
	Database    Database
	Email       Email
	Storage     Storage
}

type Auth struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	SignupRoles     []string      `env:"SIGNUP_ROLES" envDefault:"user" envSeparator:","`
	PurgeInterval   time.Duration `env:"PURGE_INTERVAL" envDefault:"1h"`
	GoogleClientID  string        `env:"GOOGLE_CLIENT_ID"`
}

type Database struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB" envDefault:"teknikoz"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

type Email struct {
	Provider     string `env:"EMAIL_PROVIDER" envDefault:"resend"`
	APIKey       string `env:"EMAIL_API_KEY"`
	From         string `env:"FROM_EMAIL" envDefault:"noreply@teknikoz.com"`
	Admin        string `env:"ADMIN_EMAIL" envDefault:"admin@teknikoz.com"`
	SendgridHost string `env:"SENDGRID_HOST" envDefault:"https://api.sendgrid.com"`

	// SendRate caps provider requests per second; 0 disables pacing.
	SendRate float64 `env:"EMAIL_SEND_RATE" envDefault:"2"`
}

type Storage struct {
	BrochureBaseURL string        `env:"BROCHURE_BASE_URL" envDefault:"http://localhost:8080/brochures"`
	S3Bucket        string        `env:"S3_BUCKET"`
	S3Region        string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string        `env:"S3_ENDPOINT"`
	S3AccessKey     string        `env:"S3_ACCESS_KEY"`
	S3SecretKey     string        `env:"S3_SECRET_KEY"`
	S3PresignTTL    time.Duration `env:"S3_PRESIGN_TTL" envDefault:"24h"`
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadFrom parses the given variables only. Used by tests and tools.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate reports configuration the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, domain.ErrMissingSigningSecret)
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be positive"))
	}
	switch c.Email.Provider {
	case "resend", "sendgrid", "log":
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Email.Provider))
	}
	if c.Email.SendRate < 0 {
		errs = append(errs, errors.New("EMAIL_SEND_RATE must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func (d Database) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
