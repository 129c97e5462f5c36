package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORTAL_PORT", "")
	t.Setenv("PAYMENT_DELAY_MS", "")
	t.Setenv("CHECKOUT_MODE", "")
	t.Setenv("UPSTREAM_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.FilterDebounce)
	assert.Equal(t, CheckoutInline, cfg.CheckoutMode)
	assert.Equal(t, "http://localhost:5000", cfg.UpstreamURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORTAL_PORT", "9000")
	t.Setenv("PAYMENT_DELAY_MS", "0")
	t.Setenv("CHECKOUT_MODE", "temporal")
	t.Setenv("UPSTREAM_URL", "http://flights.internal:5000/")
	t.Setenv("SESSION_TTL_MINUTES", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.PaymentDelay)
	assert.Equal(t, CheckoutTemporal, cfg.CheckoutMode)
	assert.Equal(t, "http://flights.internal:5000", cfg.UpstreamURL)
	assert.Equal(t, 60*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
}
