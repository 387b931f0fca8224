package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newTestViper())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.CartMaxQuantity)
	assert.InDelta(t, 0.10, cfg.TaxRate, 1e-9)
	assert.Equal(t, 500.0, cfg.FreeShippingOver)
	assert.Equal(t, 10.0, cfg.ShippingFee)
	assert.Equal(t, 12, cfg.CatalogPageSize)
	assert.False(t, cfg.MessagingEnabled())
	assert.Equal(t, "development-secret", cfg.JWTSecret)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_DSN", "host=db user=app")
	t.Setenv("CART_MAX_QUANTITY", "5")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=app", cfg.DatabaseDSN)
	assert.Equal(t, 5, cfg.CartMaxQuantity)
	assert.True(t, cfg.MessagingEnabled())
}

func TestValidate_Rejects(t *testing.T) {
	v := newTestViper()
	v.Set("DB_DRIVER", "mysql")
	v.Set("CART_MAX_QUANTITY", 0)
	v.Set("APP_ENV", "production")

	err := FromViper(v).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
	assert.Contains(t, err.Error(), "CART_MAX_QUANTITY")
	assert.Contains(t, err.Error(), "JWT_SECRET is required in production")
}
