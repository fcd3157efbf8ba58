package config

import (
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	AppName    = "Nanotronics Survey"
	AppVersion = "1.0.0"

	defaultSecretKey = "dev-secret-key-change-in-production"
)

type Config struct {
	SecretKey string `env:"SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`

	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port uint   `env:"PORT" envDefault:"5000"`

	Environment string `env:"APP_ENV" envDefault:"production"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RateLimitEnabled  bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRequests int  `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // seconds

	ResponsesDir string `env:"RESPONSES_DIR" envDefault:"responses"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"public"`

	DatabaseURL string `env:"DATABASE_URL"`
}

// Load reads configuration from the environment, after a best-effort
// .env load for local development.
func Load() (cfg Config, err error) {
	_ = godotenv.Load()

	if err = env.Parse(&cfg); err != nil {
		err = errors.Wrap(err, "parse env")
	}
	return
}

func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))
}

func (cfg Config) IsProduction() bool {
	return cfg.Environment == "production"
}

func (cfg Config) Window() time.Duration {
	return time.Duration(cfg.RateLimitWindow) * time.Second
}

// Validate returns configuration warnings. None of these are fatal:
// the server still comes up, main just logs them.
func (cfg Config) Validate() (warnings []string) {
	if cfg.IsProduction() {
		if cfg.SecretKey == defaultSecretKey {
			warnings = append(warnings, "SECRET_KEY is using default value in production!")
		}
		for _, origin := range cfg.AllowedOrigins {
			if origin == "*" {
				warnings = append(warnings, "CORS is allowing all origins in production!")
				break
			}
		}
	}
	return
}
