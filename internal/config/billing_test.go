package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBillingConfig(t *testing.T) {
	cfg := DefaultBillingConfig()

	assert.EqualValues(t, 10000, cfg.HubSessionDailyRateCents)
	assert.Equal(t, 14, cfg.DefaultDueDays)
	assert.False(t, cfg.DraftSortByTotal)
	require.NoError(t, cfg.validate())
}

func TestBillingConfigValidateRejectsNegatives(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BillingConfig)
	}{
		{"hub rate", func(c *BillingConfig) { c.HubSessionDailyRateCents = -1 }},
		{"due days", func(c *BillingConfig) { c.DefaultDueDays = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBillingConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestStaticBillingConfigHolder(t *testing.T) {
	cfg := DefaultBillingConfig()
	cfg.DefaultDueDays = 30

	holder := NewStaticBillingConfigHolder(cfg)
	assert.Equal(t, 30, holder.Current().DefaultDueDays)
}
