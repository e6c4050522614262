package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "PKR", cfg.Currency)
	assert.InDelta(t, 0.15, cfg.PlatformCommissionRate, 1e-9)
	assert.Equal(t, int64(100), cfg.PointsEarnDivisor)
	assert.InDelta(t, 1.2, cfg.PeakMultiplier, 1e-9)
	assert.Equal(t, time.Second, cfg.PaymentPollInterval)
	assert.Equal(t, 10, cfg.PaymentPollAttempts)
	assert.Equal(t, 30*time.Minute, cfg.AttemptTTL)
	assert.Equal(t, map[string]float64{"GLOW10": 0.10}, cfg.Promotions())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAYMENT_POLL_ATTEMPTS", "3")
	t.Setenv("PAYMENT_POLL_INTERVAL", "250ms")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.PaymentPollAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.PaymentPollInterval)
	assert.Equal(t, "memory", cfg.StoreBackend)
}

func TestLoadRejectsBadPromoCodes(t *testing.T) {
	t.Setenv("PROMO_CODES", "GLOW10")

	_, err := load(viper.New())
	assert.Error(t, err)
}

func TestParsePromoCodes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]float64
		wantErr bool
	}{
		{name: "empty", raw: "", want: map[string]float64{}},
		{name: "single lower-case", raw: "glow10=0.1", want: map[string]float64{"GLOW10": 0.1}},
		{name: "several with spaces", raw: " GLOW10=0.10 , EID25 = 0.25 ", want: map[string]float64{"GLOW10": 0.10, "EID25": 0.25}},
		{name: "missing rate", raw: "GLOW10", wantErr: true},
		{name: "not a number", raw: "GLOW10=ten", wantErr: true},
		{name: "out of range", raw: "FREE=1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePromoCodes(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
