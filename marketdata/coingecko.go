package marketdata

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/valutatrade/hub"
)

// coinIDs maps currency codes to CoinGecko coin identifiers.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"USDT": "tether",
	"BNB":  "binancecoin",
	"ADA":  "cardano",
	"XRP":  "ripple",
	"DOGE": "dogecoin",
}

// CoinGecko fetches crypto→USD rates from the CoinGecko simple price API.
// No API key is required.
type CoinGecko struct {
	// URL overrides the API endpoint, for tests.
	URL    string
	client *http.Client
}

// NewCoinGecko builds a client with the given request timeout.
func NewCoinGecko(timeout time.Duration) *CoinGecko {
	return &CoinGecko{
		URL:    "https://api.coingecko.com/api/v3/simple/price",
		client: newClient(timeout),
	}
}

func (c *CoinGecko) Name() string { return "CoinGecko" }

// Fetch returns a mapping like {"BTC_USD": 59337.21, ...}.
//
// The response shape is {"bitcoin": {"usd": 59337.21}, ...}; values are
// picked with jsonpath since the keys are coin ids, not currency codes.
func (c *CoinGecko) Fetch() (map[string]float64, error) {
	ids := make([]string, 0, len(coinIDs))
	for _, id := range coinIDs {
		ids = append(ids, id)
	}
	addr := fmt.Sprintf("%s?ids=%s&vs_currencies=usd", c.URL, strings.Join(ids, ","))

	var jobj any
	if err := jwget(c.client, addr, &jobj); err != nil {
		return nil, apiError(c.Name(), err)
	}

	rates := make(map[string]float64)
	for code, id := range coinIDs {
		jval, err := jsonpath.Get(fmt.Sprintf("$.%s.usd", id), jobj)
		if err != nil {
			continue // coin absent from the response
		}
		if rate, ok := jval.(float64); ok && rate > 0 {
			rates[hub.PairKey(code, BaseCurrency)] = rate
		}
	}
	return rates, nil
}
