package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is everything the server reads from the environment.
type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
	DatabaseURL  string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret    string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresIn string `env:"JWT_EXPIRES_IN" envDefault:"7d"`
	JWTIssuer    string `env:"JWT_ISSUER" envDefault:"flashdeck-api"`
	PasswordSalt string `env:"PASSWORD_SALT"`
	Port         string `env:"PORT" envDefault:"3000"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	CORS CORSConfig
}

type CORSConfig struct {
	Origin               string   `env:"CORS_ORIGIN" envDefault:"*"`
	Methods              []string `env:"CORS_METHODS" envSeparator:"," envDefault:"GET,HEAD,PUT,PATCH,POST,DELETE,OPTIONS"`
	AllowedHeaders       []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Origin,X-Requested-With,Content-Type,Accept,Authorization"`
	Credentials          bool     `env:"CORS_CREDENTIALS" envDefault:"false"`
	OptionsSuccessStatus int      `env:"CORS_OPTIONS_SUCCESS_STATUS" envDefault:"200"`
	MaxAge               int      `env:"CORS_MAX_AGE" envDefault:"86400"`
}

// Load parses the environment. DATABASE_URL and JWT_SECRET are required.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORS.Methods = normalizeList(cfg.CORS.Methods, strings.ToUpper)
	cfg.CORS.AllowedHeaders = normalizeList(cfg.CORS.AllowedHeaders, nil)
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }
func (c *Config) IsProduction() bool  { return c.AppEnv == "production" }
func (c *Config) IsTest() bool        { return c.AppEnv == "test" }

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// Origins interprets CORS_ORIGIN. "false" disables CORS, "true" reflects any
// origin, "*" allows all, anything else is a comma separated allow list.
func (c CORSConfig) Origins() (enabled, reflect bool, origins []string) {
	switch strings.TrimSpace(c.Origin) {
	case "false":
		return false, false, nil
	case "true":
		return true, true, nil
	case "*", "":
		return true, false, []string{"*"}
	}
	return true, false, normalizeList(strings.Split(c.Origin, ","), nil)
}

func normalizeList(values []string, transform func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if transform != nil {
			v = transform(v)
		}
		out = append(out, v)
	}
	return out
}
