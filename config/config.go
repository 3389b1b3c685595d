package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// CommissionTier is one referral-count-gated commission bracket. Tiers are
// evaluated highest MinActiveReferrals first; the first tier whose minimum the
// referrer's live active-referral count meets wins.
type CommissionTier struct {
	Name               string  `mapstructure:"name"`
	MinActiveReferrals int     `mapstructure:"min_active_referrals"`
	Rate               float64 `mapstructure:"rate"`
	DailyCap           float64 `mapstructure:"daily_cap"`
}

type Config struct {
	CommissionLevels      int              `mapstructure:"commission_levels"`
	CommissionTiers       []CommissionTier `mapstructure:"commission_tiers"`
	WithdrawChargePercent float64          `mapstructure:"withdraw_charge_percent"`
	MinWithdraw           float64          `mapstructure:"min_withdraw"`
	SignupBonus           float64          `mapstructure:"signup_bonus"`
	IncomeInterval        time.Duration    `mapstructure:"income_interval"`
	IncomeLeaseTTL        time.Duration    `mapstructure:"income_lease_ttl"`
	RedisAddr             string           `mapstructure:"redis_addr"`
	RedisPass             string           `mapstructure:"redis_pass"`
}

var (
	loadOnce sync.Once
	loaded   *Config
)

// Get returns the process-wide configuration, loading it on first use from
// workup.yaml (optional) with env overrides (WORKUP_ prefix).
func Get() *Config {
	loadOnce.Do(func() {
		loaded = load()
	})
	return loaded
}

func load() *Config {
	v := viper.New()
	v.SetConfigName("workup")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/workup")

	v.SetDefault("commission_levels", 3)
	v.SetDefault("withdraw_charge_percent", 5.0)
	v.SetDefault("min_withdraw", 200.0)
	v.SetDefault("signup_bonus", 25.0)
	v.SetDefault("income_interval", "24h")
	v.SetDefault("income_lease_ttl", "10m")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_pass", "")

	v.SetEnvPrefix("WORKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[config] failed reading config file: %v", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Printf("[config] unmarshal error, using defaults: %v", err)
	}
	if len(cfg.CommissionTiers) == 0 {
		cfg.CommissionTiers = DefaultTiers()
	}
	if cfg.CommissionLevels <= 0 {
		cfg.CommissionLevels = 3
	}
	return cfg
}

// DefaultTiers is the canonical commission rate table. One table, one
// eligibility basis: the referrer's count of active downstream referrals.
func DefaultTiers() []CommissionTier {
	return []CommissionTier{
		{Name: "bronze", MinActiveReferrals: 5, Rate: 0.03, DailyCap: 1000},
		{Name: "silver", MinActiveReferrals: 20, Rate: 0.05, DailyCap: 2500},
		{Name: "gold", MinActiveReferrals: 50, Rate: 0.10, DailyCap: 5000},
	}
}
