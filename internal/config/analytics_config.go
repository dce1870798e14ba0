package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AnalyticsConfig tunes the background jobs. It is loaded from the TOML file
// named by ANALYTICS_CONFIG; when the variable is unset the defaults apply.
type AnalyticsConfig struct {
	Analytics    AnalyticsSettings    `toml:"analytics"`
	CacheWarming CacheWarmingSettings `toml:"cache_warming"`
}

// AnalyticsSettings controls the periodic catalog stats refresh.
type AnalyticsSettings struct {
	Enabled                bool `toml:"enabled"`
	RefreshIntervalMinutes int  `toml:"refresh_interval_minutes"`
}

// CacheWarmingSettings controls the category path warmup job.
type CacheWarmingSettings struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	CategoryLimit   int  `toml:"category_limit"`
}

// LoadAnalyticsConfig loads configuration from a TOML file.
func LoadAnalyticsConfig(filename string) (*AnalyticsConfig, error) {
	config := DefaultAnalyticsConfig()
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return config, nil
}

func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		Analytics: AnalyticsSettings{
			Enabled:                true,
			RefreshIntervalMinutes: 15,
		},
		CacheWarming: CacheWarmingSettings{
			Enabled:         true,
			IntervalMinutes: 60,
			CategoryLimit:   1000,
		},
	}
}
