package hub

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TradeResult reports one executed buy or sell. Rate and ValueUSD are
// valuation details for display only; Valued is false when no USD rate
// could be resolved, which never blocks the trade itself.
type TradeResult struct {
	Currency   string
	Amount     decimal.Decimal
	OldBalance decimal.Decimal
	NewBalance decimal.Decimal

	Valued   bool
	Rate     float64
	ValueUSD decimal.Decimal
}

// Trader executes buy and sell operations: validate, load the portfolio,
// mutate the wallet, value the trade best-effort, persist.
type Trader struct {
	registry *Registry
	accounts *Accounts
	resolver *Resolver
	log      zerolog.Logger
}

// NewTrader builds the trading service.
func NewTrader(registry *Registry, accounts *Accounts, resolver *Resolver, log zerolog.Logger) *Trader {
	return &Trader{
		registry: registry,
		accounts: accounts,
		resolver: resolver,
		log:      log.With().Str("module", "trading").Logger(),
	}
}

// Buy deposits amount of the given currency into the user's wallet,
// creating the wallet on first purchase. The portfolio is persisted
// unconditionally once the wallet mutation succeeded; a persistence
// failure surfaces as a StoreError with the in-memory mutation unsaved.
func (t *Trader) Buy(user *User, currencyCode string, amount decimal.Decimal) (*TradeResult, error) {
	code, err := t.validate(currencyCode, amount)
	if err != nil {
		return nil, err
	}

	portfolio, err := t.accounts.PortfolioOf(user.ID)
	if err != nil {
		return nil, err
	}
	wallet := portfolio.Wallet(code)
	oldBalance := wallet.Balance
	if err := wallet.Deposit(amount); err != nil {
		return nil, err
	}

	result := &TradeResult{
		Currency:   code,
		Amount:     amount,
		OldBalance: oldBalance,
		NewBalance: wallet.Balance,
	}
	t.value(result, code, amount)

	if err := t.accounts.SavePortfolio(portfolio); err != nil {
		return nil, err
	}
	t.log.Info().Str("op", "buy").Int("user_id", user.ID).Str("currency", code).
		Str("amount", amount.String()).Str("balance", wallet.Balance.String()).Msg("trade executed")
	return result, nil
}

// Sell withdraws amount of the given currency from the user's wallet.
// The wallet must exist (a currency must have been bought before it can be
// sold) and hold a sufficient balance; validation failures happen before
// any mutation.
func (t *Trader) Sell(user *User, currencyCode string, amount decimal.Decimal) (*TradeResult, error) {
	code, err := t.validate(currencyCode, amount)
	if err != nil {
		return nil, err
	}

	portfolio, err := t.accounts.PortfolioOf(user.ID)
	if err != nil {
		return nil, err
	}
	wallet, ok := portfolio.Lookup(code)
	if !ok {
		return nil, &WalletNotFoundError{Code: code}
	}
	oldBalance := wallet.Balance
	if err := wallet.Withdraw(amount); err != nil {
		return nil, err
	}

	result := &TradeResult{
		Currency:   code,
		Amount:     amount,
		OldBalance: oldBalance,
		NewBalance: wallet.Balance,
	}
	t.value(result, code, amount)

	if err := t.accounts.SavePortfolio(portfolio); err != nil {
		return nil, err
	}
	t.log.Info().Str("op", "sell").Int("user_id", user.ID).Str("currency", code).
		Str("amount", amount.String()).Str("balance", wallet.Balance.String()).Msg("trade executed")
	return result, nil
}

func (t *Trader) validate(currencyCode string, amount decimal.Decimal) (string, error) {
	cur, err := t.registry.Get(currencyCode)
	if err != nil {
		return "", err
	}
	if !amount.IsPositive() {
		return "", Validationf("'amount' must be a positive number")
	}
	return cur.Code, nil
}

// value fills the USD valuation fields, best effort: rate unavailability
// leaves Valued false and never fails the trade.
func (t *Trader) value(result *TradeResult, code string, amount decimal.Decimal) {
	quote, err := t.resolver.Resolve(code, "USD", true)
	if err != nil {
		t.log.Debug().Str("currency", code).Err(err).Msg("trade not valued")
		return
	}
	result.Valued = true
	result.Rate = quote.Rate
	result.ValueUSD = amount.Mul(decimal.NewFromFloat(quote.Rate))
}

// ResolveFor adapts the resolver to the portfolio valuation callback.
func ResolveFor(resolver *Resolver) ResolveFunc {
	return func(from, to string) (float64, time.Time, error) {
		q, err := resolver.Resolve(from, to, true)
		if err != nil {
			return 0, time.Time{}, err
		}
		return q.Rate, q.UpdatedAt, nil
	}
}
