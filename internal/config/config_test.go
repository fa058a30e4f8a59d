package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SQB_VENDOR_SN", "V1")
	t.Setenv("SQB_VENDOR_KEY", "VK")
}

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		setRequired(t)
		t.Setenv("SQB_API_DOMAIN", "https://api.sqb.test")
		t.Setenv("SQB_APP_ID", "A1")
		t.Setenv("SQB_NOTIFY_URL", "https://m.example.com/notify")
		t.Setenv("SQB_RETURN_URL", "https://m.example.com/return")
		t.Setenv("SQB_GATEWAY", "https://qr.sqb.test/gateway")
		t.Setenv("SQB_SANDBOX", "true")
		t.Setenv("SQB_HTTP_TIMEOUT", "5s")
		t.Setenv("SQB_RATE_LIMIT", "2.5")
		t.Setenv("APP_ENV", "test")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "https://api.sqb.test", cfg.APIDomain)
		assert.Equal(t, "A1", cfg.AppID)
		assert.Equal(t, "https://m.example.com/notify", cfg.NotifyURL)
		assert.Equal(t, "https://m.example.com/return", cfg.ReturnURL)
		assert.Equal(t, "V1", cfg.VendorSN)
		assert.Equal(t, "VK", cfg.VendorKey)
		assert.Equal(t, "https://qr.sqb.test/gateway", cfg.GateWay)
		assert.True(t, cfg.Sandbox)
		assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, 2.5, cfg.RateLimit)
		assert.Equal(t, "test", cfg.AppEnv)

		gw := cfg.Gateway()
		assert.Equal(t, cfg.VendorKey, gw.VendorKey)
		assert.Equal(t, cfg.AppID, gw.AppID)
		assert.True(t, gw.Sandbox)
	})

	t.Run("Defaults", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SQB_SANDBOX", "")
		t.Setenv("SQB_HTTP_TIMEOUT", "")
		t.Setenv("SQB_RATE_LIMIT", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.False(t, cfg.Sandbox)
		assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
		assert.Zero(t, cfg.RateLimit)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		t.Setenv("SQB_VENDOR_SN", "")
		t.Setenv("SQB_VENDOR_KEY", "")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Invalid values", func(t *testing.T) {
		setRequired(t)
		for _, key := range []string{"SQB_SANDBOX", "SQB_HTTP_TIMEOUT", "SQB_RATE_LIMIT"} {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, "bogus")
				_, err := LoadConfig()
				assert.Error(t, err)
				assert.Contains(t, err.Error(), key)
			})
		}
	})
}
