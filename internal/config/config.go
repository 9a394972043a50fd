package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/authguard/internal/constants"
	"github.com/authguard/internal/errx"
)

// ErrInvalid marks a configuration value that failed validation
var ErrInvalid = errors.New("invalid config")

const defaultJWTSecret = "change-me-in-production-secret-key"

// Config holds the application configuration
type Config struct {
	Environment  string       `yaml:"environment"`
	Host         string       `yaml:"host"`
	Port         int          `yaml:"port"`
	DatabasePath string       `yaml:"database_path"`
	StaticDir    string       `yaml:"static_dir"`
	LogBackend   string       `yaml:"log_backend"`
	Auth         AuthConfig   `yaml:"auth"`
	Routes       RoutesConfig `yaml:"routes"`
	CORS         CORSConfig   `yaml:"cors"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	JWTSecret    string `yaml:"jwt_secret"`
	Issuer       string `yaml:"issuer"`
	SecureCookie bool   `yaml:"secure_cookie"`
	BaseURL      string `yaml:"base_url"` // Base URL for auth callbacks (e.g., http://localhost:8080)
}

// RoutesConfig holds the paths the redirect guard navigates between
type RoutesConfig struct {
	AuthPath string `yaml:"auth_path"`
	HomePath string `yaml:"home_path"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Environment:  "production",
		Host:         "0.0.0.0",
		Port:         80,
		DatabasePath: "./data/authguard.db",
		StaticDir:    "./web/dist",
		LogBackend:   "slog",
		Auth: AuthConfig{
			Enabled:   true,
			JWTSecret: defaultJWTSecret,
			Issuer:    constants.ServiceName,
			BaseURL:   "http://localhost",
		},
		Routes: RoutesConfig{
			AuthPath: "/auth",
			HomePath: "/",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
	}
}

// Load loads configuration from an optional YAML file named by CONFIG_FILE,
// then environment variables, on top of defaults
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML file; an empty path skips the file
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Environment = getEnv("ENV", c.Environment)
	c.Host = getEnv("HOST", c.Host)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogBackend = getEnv("LOG_BACKEND", c.LogBackend)

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT %q is not a number", ErrInvalid, v)
		}
		c.Port = port
	}

	c.Auth.Enabled = getBool("AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.Issuer = getEnv("AUTH_ISSUER", c.Auth.Issuer)
	c.Auth.SecureCookie = getBool("AUTH_SECURE_COOKIE", c.Auth.SecureCookie)
	c.Auth.BaseURL = getEnv("AUTH_BASE_URL", c.Auth.BaseURL)

	c.Routes.AuthPath = getEnv("AUTH_PATH", c.Routes.AuthPath)
	c.Routes.HomePath = getEnv("HOME_PATH", c.Routes.HomePath)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = parseCommaSeparatedList(v)
	}
	return nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	errs := errx.New()

	errs.If(c.Port < 1 || c.Port > 65535, ErrInvalid, "port %d out of range", c.Port)
	errs.If(c.DatabasePath == "", ErrInvalid, "database path is empty")
	errs.If(!strings.HasPrefix(c.Routes.AuthPath, "/") || c.Routes.AuthPath == "/", ErrInvalid,
		"auth path %q must be an absolute path other than /", c.Routes.AuthPath)
	errs.If(!strings.HasPrefix(c.Routes.HomePath, "/"), ErrInvalid, "home path %q must be absolute", c.Routes.HomePath)
	// the guard sends authenticated users from the auth page home; a home inside
	// the auth page would bounce forever
	errs.If(c.Routes.AuthPath != "" && strings.Contains(c.Routes.HomePath, c.Routes.AuthPath), ErrInvalid,
		"home path %q lies inside auth path %q", c.Routes.HomePath, c.Routes.AuthPath)
	errs.If(c.LogBackend != "slog" && c.LogBackend != "zap", ErrInvalid, "log backend %q must be slog or zap", c.LogBackend)
	errs.If(c.Auth.Enabled && c.Auth.JWTSecret == "", ErrInvalid, "JWT secret is required when auth is enabled")
	errs.If(c.Auth.Enabled && c.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret, ErrInvalid,
		"JWT secret must be changed in production")

	return errs.Err()
}

// ServerAddress returns host:port for the listener
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsDev reports whether debug logging and gin debug mode apply
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// IsProduction reports whether the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// parseCommaSeparatedList splits a comma-separated string into a slice
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return []string{}
	}

	items := strings.Split(s, ",")
	result := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}

	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1"
}
