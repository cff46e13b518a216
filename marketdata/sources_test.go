package marketdata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutatrade/hub"
)

func TestCoinGeckoFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("ids"), "bitcoin")
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		fmt.Fprint(w, `{"bitcoin":{"usd":59337.21},"ethereum":{"usd":3201.5},"tether":{}}`)
	}))
	defer server.Close()

	source := NewCoinGecko(time.Second)
	source.URL = server.URL

	rates, err := source.Fetch()
	require.NoError(t, err)
	assert.Equal(t, 59337.21, rates["BTC_USD"])
	assert.Equal(t, 3201.5, rates["ETH_USD"])
	assert.NotContains(t, rates, "USDT_USD", "coins without a price are skipped")
}

func TestCoinGeckoHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	source := NewCoinGecko(time.Second)
	source.URL = server.URL

	_, err := source.Fetch()
	var aerr *hub.APIRequestError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "CoinGecko", aerr.Provider)
}

func TestExchangeRateAPIFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/latest/USD", r.URL.Path)
		fmt.Fprint(w, `{"result":"success","conversion_rates":{"EUR":0.9091,"GBP":0.7874,"ZAR":18.5}}`)
	}))
	defer server.Close()

	source := NewExchangeRateAPI("test-key", time.Second)
	source.URL = server.URL

	rates, err := source.Fetch()
	require.NoError(t, err)
	// quotes are USD→code, the cache stores code→USD
	assert.InDelta(t, 1/0.9091, rates["EUR_USD"], 1e-9)
	assert.InDelta(t, 1/0.7874, rates["GBP_USD"], 1e-9)
	assert.Equal(t, 1.0, rates["USD_USD"])
	assert.NotContains(t, rates, "ZAR_USD", "codes outside the catalog are skipped")
}

func TestExchangeRateAPIErrors(t *testing.T) {
	source := NewExchangeRateAPI("", time.Second)
	_, err := source.Fetch()
	var aerr *hub.APIRequestError
	require.ErrorAs(t, err, &aerr, "a missing key fails before any request")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"error","error-type":"invalid-key"}`)
	}))
	defer server.Close()

	source = NewExchangeRateAPI("bad-key", time.Second)
	source.URL = server.URL
	_, err = source.Fetch()
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Error(), "invalid-key")
}
