package hub

import (
	"os"
	"time"
)

// Settings gathers the process configuration. One value is built at startup
// and passed to the components that need it; there is no global instance.
type Settings struct {
	// DataDir is the directory holding the JSON collections.
	DataDir string
	// RatesTTL is the maximum age after which a cached rate is stale.
	RatesTTL time.Duration
	// BaseCurrency is the default valuation currency.
	BaseCurrency string
	// ExchangeRateAPIKey authenticates against ExchangeRate-API.
	ExchangeRateAPIKey string
	// HTTPTimeout bounds each external rate request.
	HTTPTimeout time.Duration
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		DataDir:      "data",
		RatesTTL:     time.Hour,
		BaseCurrency: "USD",
		HTTPTimeout:  10 * time.Second,
	}
}

// SettingsFromEnv overlays environment variables on the defaults.
// Unset or unparsable variables keep their default.
func SettingsFromEnv() Settings {
	s := DefaultSettings()
	if v := os.Getenv("VTH_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv("VTH_RATES_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.RatesTTL = d
		}
	}
	if v := os.Getenv("VTH_BASE_CURRENCY"); v != "" {
		if code, err := NormalizeCode(v); err == nil {
			s.BaseCurrency = code
		}
	}
	if v := os.Getenv("EXCHANGERATE_API_KEY"); v != "" {
		s.ExchangeRateAPIKey = v
	}
	if v := os.Getenv("VTH_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.HTTPTimeout = d
		}
	}
	return s
}
