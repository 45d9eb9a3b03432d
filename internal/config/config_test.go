package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 3310, Host: "0.0.0.0", Mode: "development"},
		Analytics: AnalyticsConfig{
			DefaultGranularity: "day",
			DefaultAggregation: "sum",
			ForecastPeriods:    7,
			LookbackDays:       30,
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validate(validConfig()))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "forecast periods below one",
			mutate:  func(c *Config) { c.Analytics.ForecastPeriods = 0 },
			wantErr: "analytics.forecast_periods",
		},
		{
			name:    "lookback below one",
			mutate:  func(c *Config) { c.Analytics.LookbackDays = 0 },
			wantErr: "analytics.lookback_days",
		},
		{
			name:    "misspelled granularity",
			mutate:  func(c *Config) { c.Analytics.DefaultGranularity = "daily" },
			wantErr: "invalid analytics.default_granularity",
		},
		{
			name:    "misspelled aggregation",
			mutate:  func(c *Config) { c.Analytics.DefaultAggregation = "average" },
			wantErr: "invalid analytics.default_aggregation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validate(cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateAcceptsEveryGranularityAndKind(t *testing.T) {
	for _, g := range []string{"hour", "day", "week", "month", "year"} {
		for _, k := range []string{"sum", "avg", "max", "min", "count"} {
			cfg := validConfig()
			cfg.Analytics.DefaultGranularity = g
			cfg.Analytics.DefaultAggregation = k
			assert.NoError(t, validate(cfg), "granularity=%s aggregation=%s", g, k)
		}
	}
}
