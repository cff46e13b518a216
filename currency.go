package hub

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the two currency families in the catalog.
type Kind string

const (
	Fiat   Kind = "fiat"
	Crypto Kind = "crypto"
)

// Currency describes one entry of the static catalog. The Kind tag selects
// which of the extra attributes are meaningful: Issuer for fiat currencies,
// Algorithm and MarketCap for crypto currencies. Identity is the Code alone.
type Currency struct {
	Code string
	Name string
	Kind Kind

	Issuer    string  // issuing country or zone, fiat only
	Algorithm string  // consensus algorithm, crypto only
	MarketCap float64 // last known market capitalization, crypto only
}

// DisplayInfo renders the one-line catalog entry shown in listings and logs.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case Crypto:
		// exponent without the '+' sign, e.g. 1.12e12
		mcap := strings.Replace(fmt.Sprintf("%.2e", c.MarketCap), "e+", "e", 1)
		return fmt.Sprintf("[CRYPTO] %s — %s (Algo: %s, MCAP: %s)", c.Code, c.Name, c.Algorithm, mcap)
	default:
		return fmt.Sprintf("[FIAT] %s — %s (Issuing: %s)", c.Code, c.Name, c.Issuer)
	}
}

func (c Currency) String() string { return fmt.Sprintf("%s (%s)", c.Code, c.Name) }

// NormalizeCode trims and upper-cases a currency code and checks its shape:
// 2 to 10 alphanumeric characters.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", Validationf("currency code cannot be empty")
	}
	if len(code) < 2 || len(code) > 10 {
		return "", Validationf("currency code must be 2 to 10 characters: %q", code)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", Validationf("currency code must be alphanumeric: %q", code)
		}
	}
	return code, nil
}

// Registry is the catalog of known currencies, keyed by normalized code.
type Registry struct {
	byCode map[string]Currency
}

// NewRegistry builds a registry from the given currencies.
func NewRegistry(currencies ...Currency) *Registry {
	r := &Registry{byCode: make(map[string]Currency, len(currencies))}
	for _, c := range currencies {
		r.byCode[c.Code] = c
	}
	return r
}

// Get validates and normalizes code, then looks it up in the catalog.
func (r *Registry) Get(code string) (Currency, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return Currency{}, err
	}
	c, ok := r.byCode[code]
	if !ok {
		return Currency{}, &CurrencyNotFoundError{Code: code}
	}
	return c, nil
}

// Has reports whether code resolves to a catalog entry.
func (r *Registry) Has(code string) bool {
	_, err := r.Get(code)
	return err == nil
}

// All returns the catalog entries sorted by code.
func (r *Registry) All() []Currency {
	all := make([]Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// DefaultRegistry returns the catalog the application ships with.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Currency{Code: "USD", Name: "US Dollar", Kind: Fiat, Issuer: "United States"},
		Currency{Code: "EUR", Name: "Euro", Kind: Fiat, Issuer: "Eurozone"},
		Currency{Code: "GBP", Name: "British Pound", Kind: Fiat, Issuer: "United Kingdom"},
		Currency{Code: "RUB", Name: "Russian Ruble", Kind: Fiat, Issuer: "Russia"},
		Currency{Code: "JPY", Name: "Japanese Yen", Kind: Fiat, Issuer: "Japan"},
		Currency{Code: "CNY", Name: "Chinese Yuan", Kind: Fiat, Issuer: "China"},
		Currency{Code: "CHF", Name: "Swiss Franc", Kind: Fiat, Issuer: "Switzerland"},
		Currency{Code: "CAD", Name: "Canadian Dollar", Kind: Fiat, Issuer: "Canada"},
		Currency{Code: "AUD", Name: "Australian Dollar", Kind: Fiat, Issuer: "Australia"},

		Currency{Code: "BTC", Name: "Bitcoin", Kind: Crypto, Algorithm: "SHA-256", MarketCap: 1.12e12},
		Currency{Code: "ETH", Name: "Ethereum", Kind: Crypto, Algorithm: "Ethash", MarketCap: 4.5e11},
		Currency{Code: "USDT", Name: "Tether", Kind: Crypto, Algorithm: "Various", MarketCap: 8.3e10},
		Currency{Code: "BNB", Name: "Binance Coin", Kind: Crypto, Algorithm: "BEP-20", MarketCap: 4.2e10},
		Currency{Code: "SOL", Name: "Solana", Kind: Crypto, Algorithm: "Proof of History", MarketCap: 3.8e10},
		Currency{Code: "ADA", Name: "Cardano", Kind: Crypto, Algorithm: "Ouroboros", MarketCap: 1.5e10},
		Currency{Code: "XRP", Name: "Ripple", Kind: Crypto, Algorithm: "Consensus Protocol", MarketCap: 2.8e10},
		Currency{Code: "DOGE", Name: "Dogecoin", Kind: Crypto, Algorithm: "Scrypt", MarketCap: 1.2e10},
	)
}
