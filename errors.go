package hub

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for conditions that carry no extra data.
var (
	// ErrNotLoggedIn indicates an operation that requires an authenticated session.
	ErrNotLoggedIn = errors.New("login required")

	// ErrAuthentication indicates a password mismatch during login.
	ErrAuthentication = errors.New("invalid password")
)

// ValidationError reports malformed user input (non-positive amount, empty
// username, short password). The caller must correct the input; it is never
// retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CurrencyNotFoundError reports a currency code absent from the registry.
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("unknown currency %q (see 'currencies' for the supported list)", e.Code)
}

// ExchangeRateNotFoundError reports a pair that no cache entry, external
// fetch, or fallback value could resolve.
type ExchangeRateNotFoundError struct {
	From, To string
}

func (e *ExchangeRateNotFoundError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s->%s", e.From, e.To)
}

// WalletNotFoundError reports a sell on a currency that was never bought.
type WalletNotFoundError struct {
	Code string
}

func (e *WalletNotFoundError) Error() string {
	return fmt.Sprintf("no %s wallet: buying first creates the wallet", e.Code)
}

// InsufficientFundsError carries the amounts needed for display.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
	Code      string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s %s, required %s %s",
		e.Available.StringFixed(4), e.Code, e.Required.StringFixed(4), e.Code)
}

// UserNotFoundError reports a login attempt for an unknown username.
type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.Username)
}

// APIRequestError reports an external rate-provider failure. It is always
// recoverable by retrying later and never fatal to cache-based resolution.
type APIRequestError struct {
	Provider string
	Err      error
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *APIRequestError) Unwrap() error { return e.Err }

// StoreError reports an I/O failure reading or writing a collection file.
// It is fatal to the current command and surfaced verbatim.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: cannot %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
