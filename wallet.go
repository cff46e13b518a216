package hub

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the balance of one currency inside a portfolio.
// The balance is never negative; mutations go through Deposit and Withdraw.
type Wallet struct {
	CurrencyCode string
	Balance      decimal.Decimal
}

// Deposit adds a strictly positive amount to the balance.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Validationf("deposit amount must be positive, got %s", amount)
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw removes a strictly positive amount not exceeding the balance.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Validationf("withdraw amount must be positive, got %s", amount)
	}
	if amount.GreaterThan(w.Balance) {
		return &InsufficientFundsError{Available: w.Balance, Required: amount, Code: w.CurrencyCode}
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// Portfolio is the set of wallets owned by one user, unique per currency code.
type Portfolio struct {
	UserID  int
	wallets map[string]*Wallet
}

// NewPortfolio creates an empty portfolio for the given user.
func NewPortfolio(userID int) *Portfolio {
	return &Portfolio{UserID: userID, wallets: make(map[string]*Wallet)}
}

// AddWallet registers a new empty wallet and fails if one already exists
// for that code. Use Wallet() for the get-or-create behavior.
func (p *Portfolio) AddWallet(code string) (*Wallet, error) {
	if _, ok := p.wallets[code]; ok {
		return nil, Validationf("wallet %s already exists", code)
	}
	w := &Wallet{CurrencyCode: code, Balance: decimal.Zero}
	p.wallets[code] = w
	return w, nil
}

// Wallet returns the wallet for code, creating an empty one on first access.
func (p *Portfolio) Wallet(code string) *Wallet {
	if w, ok := p.wallets[code]; ok {
		return w
	}
	w := &Wallet{CurrencyCode: code, Balance: decimal.Zero}
	p.wallets[code] = w
	return w
}

// Lookup returns the wallet for code without creating it.
func (p *Portfolio) Lookup(code string) (*Wallet, bool) {
	w, ok := p.wallets[code]
	return w, ok
}

// Wallets returns the wallets sorted by currency code.
func (p *Portfolio) Wallets() []*Wallet {
	list := make([]*Wallet, 0, len(p.wallets))
	for _, w := range p.wallets {
		list = append(list, w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CurrencyCode < list[j].CurrencyCode })
	return list
}

// Len returns the number of wallets.
func (p *Portfolio) Len() int { return len(p.wallets) }

// WalletValue is the valuation of a single wallet in a base currency.
// Valued is false when no rate could be resolved; the wallet is then
// reported as "N/A" instead of failing the whole computation.
type WalletValue struct {
	Code      string
	Balance   decimal.Decimal
	Value     decimal.Decimal
	Valued    bool
	UpdatedAt time.Time
}

// ResolveFunc resolves a rate for an ordered currency pair; the returned
// time is zero when the rate carries no timestamp.
type ResolveFunc func(from, to string) (float64, time.Time, error)

// Valuations values every wallet against base with resolve, best effort:
// a wallet whose rate cannot be resolved yields Valued=false and does not
// abort the rest. The returned total sums the valued wallets only.
func (p *Portfolio) Valuations(base string, resolve ResolveFunc) ([]WalletValue, decimal.Decimal) {
	values := make([]WalletValue, 0, len(p.wallets))
	total := decimal.Zero
	for _, w := range p.Wallets() {
		v := WalletValue{Code: w.CurrencyCode, Balance: w.Balance}
		rate, updatedAt, err := resolve(w.CurrencyCode, base)
		if err == nil {
			v.Value = w.Balance.Mul(decimal.NewFromFloat(rate))
			v.Valued = true
			v.UpdatedAt = updatedAt
			total = total.Add(v.Value)
		}
		values = append(values, v)
	}
	return values, total
}
