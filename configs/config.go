package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver  string        `mapstructure:"DB_DRIVER"`
	DBSource  string        `mapstructure:"DB_SOURCE"`
	Port      string        `mapstructure:"PORT"`
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	SeedCatalog   bool   `mapstructure:"SEED_CATALOG"`

	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	GinMode     string `mapstructure:"GIN_MODE"`
}

var defaults = map[string]any{
	"DB_DRIVER":      "sqlite",
	"DB_SOURCE":      "food_delivery.db",
	"PORT":           "8000",
	"JWT_SECRET":     "food-delivery-secret-key",
	"JWT_TTL":        "24h",
	"ADMIN_USERNAME": "admin",
	"ADMIN_EMAIL":    "admin@example.com",
	"ADMIN_PASSWORD": "admin123",
	"SEED_CATALOG":   true,
	"LOG_LEVEL":      "info",
	"CORS_ORIGINS":   "*",
	"GIN_MODE":       "debug",
}

// LoadConfig reads .env when present, then the process environment.
// Process env wins over .env because godotenv never overrides set vars.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	return nil
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
