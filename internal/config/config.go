package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront.
type Config struct {
	Env         string
	AppPort     string
	CORSOrigins string

	DBDriver    string
	DatabaseDSN string

	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool

	RabbitMQURL      string
	RabbitMQExchange string

	LogLevel  string
	LogFormat string

	CartMaxQuantity  int
	TaxRate          float64
	FreeShippingOver float64
	ShippingFee      float64
	CatalogPageSize  int
	AdminPageSize    int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "sneakerhead.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "sh_session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "orders")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CART_MAX_QUANTITY", 10)
	v.SetDefault("TAX_RATE", 0.10)
	v.SetDefault("FREE_SHIPPING_OVER", 500)
	v.SetDefault("SHIPPING_FEE", 10)
	v.SetDefault("CATALOG_PAGE_SIZE", 12)
	v.SetDefault("ADMIN_PAGE_SIZE", 10)
}

// Load reads an optional .env file, then environment variables, on top of the defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper maps viper keys onto a Config without validating it.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Env:              v.GetString("APP_ENV"),
		AppPort:          v.GetString("APP_PORT"),
		CORSOrigins:      v.GetString("CORS_ORIGINS"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		SessionCookie:    v.GetString("SESSION_COOKIE"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		CartMaxQuantity:  v.GetInt("CART_MAX_QUANTITY"),
		TaxRate:          v.GetFloat64("TAX_RATE"),
		FreeShippingOver: v.GetFloat64("FREE_SHIPPING_OVER"),
		ShippingFee:      v.GetFloat64("SHIPPING_FEE"),
		CatalogPageSize:  v.GetInt("CATALOG_PAGE_SIZE"),
		AdminPageSize:    v.GetInt("ADMIN_PAGE_SIZE"),
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MessagingEnabled reports whether an AMQP broker is configured.
func (c *Config) MessagingEnabled() bool {
	return c.RabbitMQURL != ""
}

// Validate checks the settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		} else {
			c.JWTSecret = "development-secret"
		}
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.CartMaxQuantity < 1 {
		errs = append(errs, errors.New("CART_MAX_QUANTITY must be at least 1"))
	}
	if c.TaxRate < 0 || c.FreeShippingOver < 0 || c.ShippingFee < 0 {
		errs = append(errs, errors.New("pricing settings must not be negative"))
	}
	if c.CatalogPageSize < 1 || c.AdminPageSize < 1 {
		errs = append(errs, errors.New("page sizes must be at least 1"))
	}
	return errors.Join(errs...)
}
