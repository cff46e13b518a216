package marketdata

import (
	"fmt"
	"net/http"
	"time"

	"github.com/valutatrade/hub"
)

// fiatCodes are the fiat currencies requested from ExchangeRate-API.
var fiatCodes = []string{"EUR", "GBP", "RUB", "JPY", "CNY", "CHF", "CAD", "AUD"}

// ExchangeRateAPI fetches fiat→USD rates from the ExchangeRate-API v6
// endpoint. It requires an API key.
type ExchangeRateAPI struct {
	// URL overrides the API base, for tests.
	URL    string
	apiKey string
	client *http.Client
}

// NewExchangeRateAPI builds a client with the given key and timeout.
func NewExchangeRateAPI(apiKey string, timeout time.Duration) *ExchangeRateAPI {
	return &ExchangeRateAPI{
		URL:    "https://v6.exchangerate-api.com/v6",
		apiKey: apiKey,
		client: newClient(timeout),
	}
}

func (c *ExchangeRateAPI) Name() string { return "ExchangeRate-API" }

// Fetch returns a mapping like {"EUR_USD": 1.0786, ...}.
func (c *ExchangeRateAPI) Fetch() (map[string]float64, error) {
	if c.apiKey == "" {
		return nil, apiError(c.Name(), fmt.Errorf("EXCHANGERATE_API_KEY is not set"))
	}
	addr := fmt.Sprintf("%s/%s/latest/%s", c.URL, c.apiKey, BaseCurrency)

	// The interesting part of the v6 response.
	var content struct {
		Result    string             `json:"result"`
		ErrorType string             `json:"error-type"`
		Rates     map[string]float64 `json:"conversion_rates"`
	}
	if err := jwget(c.client, addr, &content); err != nil {
		return nil, apiError(c.Name(), err)
	}
	if content.Result != "success" {
		reason := content.ErrorType
		if reason == "" {
			reason = "unknown error"
		}
		return nil, apiError(c.Name(), fmt.Errorf("API returned %q", reason))
	}

	rates := make(map[string]float64)
	for _, code := range fiatCodes {
		// the endpoint quotes USD→code, the cache stores code→USD
		if quoted, ok := content.Rates[code]; ok && quoted > 0 {
			rates[hub.PairKey(code, BaseCurrency)] = 1 / quoted
		}
	}
	rates[hub.PairKey(BaseCurrency, BaseCurrency)] = 1.0
	return rates, nil
}
