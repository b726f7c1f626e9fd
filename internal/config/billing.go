package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig carries operator-tunable billing defaults loaded from billing.yml.
type BillingConfig struct {
	// HubSessionDailyRateCents is the documented business default for hub
	// sessions billed without an explicit rate: $100.00.
	HubSessionDailyRateCents int64 `mapstructure:"hub_session_daily_rate_cents"`
	// DefaultDueDays is the due-date offset applied when a draft has no due date.
	DefaultDueDays int `mapstructure:"default_due_days"`
	// DraftSortByTotal switches the draft group secondary sort on by default.
	DraftSortByTotal bool `mapstructure:"draft_sort_by_total"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		HubSessionDailyRateCents: 10000,
		DefaultDueDays:           14,
		DraftSortByTotal:         false,
	}
}

// BillingConfigHolder exposes a hot-reloadable snapshot of BillingConfig.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/tutordesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TUTORDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &BillingConfigHolder{}
	holder.current.Store(DefaultBillingConfig())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No file present; defaults stay active.
		return holder, nil
	}

	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Printf("billing config reload rejected: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticBillingConfigHolder returns a holder pinned to cfg, bypassing
// file loading. Used by tests and one-off tools.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// Current returns the active billing configuration snapshot.
func (h *BillingConfigHolder) Current() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func (h *BillingConfigHolder) reload(v *viper.Viper) error {
	cfg := DefaultBillingConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	h.current.Store(cfg)
	return nil
}

func (c BillingConfig) validate() error {
	if c.HubSessionDailyRateCents < 0 {
		return errors.New("hub_session_daily_rate_cents must be non-negative")
	}
	if c.DefaultDueDays < 0 {
		return errors.New("default_due_days must be non-negative")
	}
	return nil
}
