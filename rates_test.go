package hub

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is a canned rate provider for tests.
type stubSource struct {
	name  string
	rates map[string]float64
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Fetch() (map[string]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

func newTestResolver(t *testing.T, sources ...RateSource) (*Resolver, *Store) {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewResolver(DefaultRegistry(), store, time.Hour, zerolog.Nop(), sources...), store
}

func seedRate(t *testing.T, store *Store, pair string, rate float64, updatedAt string) {
	t.Helper()
	snapshot, err := store.LoadRateCache()
	require.NoError(t, err)
	snapshot.Pairs[pair] = RateEntry{Rate: rate, UpdatedAt: updatedAt, Source: "seed"}
	require.NoError(t, store.SaveRateCache(snapshot))
}

func TestResolveIdentity(t *testing.T) {
	r, _ := newTestResolver(t)
	q, err := r.Resolve("usd", " USD ", true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q.Rate)
	assert.True(t, q.UpdatedAt.IsZero())
}

func TestResolveUnknownCurrency(t *testing.T) {
	r, _ := newTestResolver(t)
	_, err := r.Resolve("XYZ", "USD", true)
	var cerr *CurrencyNotFoundError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "XYZ", cerr.Code)
}

func TestResolveDirectHit(t *testing.T) {
	r, store := newTestResolver(t)
	seedRate(t, store, "BTC_USD", 50000, time.Now().UTC().Format(time.RFC3339))

	q, err := r.Resolve("BTC", "USD", true)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, q.Rate)
	assert.Equal(t, "seed", q.Source)
}

func TestResolveInverse(t *testing.T) {
	r, store := newTestResolver(t)
	seedRate(t, store, "EUR_USD", 1.1, time.Now().UTC().Format(time.RFC3339))

	q, err := r.Resolve("USD", "EUR", true)
	require.NoError(t, err)
	assert.InDelta(t, 1/1.1, q.Rate, 1e-12)
}

func TestResolveStaleRefreshes(t *testing.T) {
	source := &stubSource{name: "stub", rates: map[string]float64{"BTC_USD": 61000}}
	r, store := newTestResolver(t)
	r.sources = []RateSource{source}
	seedRate(t, store, "BTC_USD", 50000, time.Now().UTC().Add(-2*time.Hour).Format(time.RFC3339))

	q, err := r.Resolve("BTC", "USD", true)
	require.NoError(t, err)
	assert.Equal(t, 61000.0, q.Rate)
	assert.Equal(t, "stub", q.Source)
	assert.Equal(t, 1, source.calls)

	// the refreshed value must be persisted with a history record
	snapshot, err := store.LoadRateCache()
	require.NoError(t, err)
	assert.Equal(t, 61000.0, snapshot.Pairs["BTC_USD"].Rate)
	history, err := store.LoadRateHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "BTC", history[0].FromCurrency)
	assert.Equal(t, "USD", history[0].ToCurrency)
}

func TestResolveStaleServedWhenRefreshFails(t *testing.T) {
	source := &stubSource{name: "stub", err: &APIRequestError{Provider: "stub", Err: errors.New("down")}}
	r, store := newTestResolver(t)
	r.sources = []RateSource{source}
	seedRate(t, store, "BTC_USD", 50000, time.Now().UTC().Add(-2*time.Hour).Format(time.RFC3339))

	q, err := r.Resolve("BTC", "USD", true)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, q.Rate)
	assert.Equal(t, 1, source.calls)
}

func TestResolveWithoutTTLSkipsRefresh(t *testing.T) {
	source := &stubSource{name: "stub", rates: map[string]float64{"BTC_USD": 61000}}
	r, store := newTestResolver(t)
	r.sources = []RateSource{source}
	seedRate(t, store, "BTC_USD", 50000, time.Now().UTC().Add(-48*time.Hour).Format(time.RFC3339))

	q, err := r.Resolve("BTC", "USD", false)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, q.Rate)
	assert.Zero(t, source.calls)
}

func TestResolveUnparsableTimestampUsedAsIs(t *testing.T) {
	source := &stubSource{name: "stub", rates: map[string]float64{"BTC_USD": 61000}}
	r, store := newTestResolver(t)
	r.sources = []RateSource{source}
	seedRate(t, store, "BTC_USD", 50000, "not-a-timestamp")

	q, err := r.Resolve("BTC", "USD", true)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, q.Rate)
	assert.True(t, q.UpdatedAt.IsZero())
	assert.Zero(t, source.calls)
}

func TestResolveFreshFetchOnMiss(t *testing.T) {
	source := &stubSource{name: "stub", rates: map[string]float64{"ETH_USD": 3200}}
	r, store := newTestResolver(t, source)

	q, err := r.Resolve("ETH", "USD", true)
	require.NoError(t, err)
	assert.Equal(t, 3200.0, q.Rate)

	snapshot, err := store.LoadRateCache()
	require.NoError(t, err)
	assert.Contains(t, snapshot.Pairs, "ETH_USD")
}

func TestResolveFallbackTable(t *testing.T) {
	source := &stubSource{name: "stub", err: &APIRequestError{Provider: "stub", Err: errors.New("down")}}
	r, _ := newTestResolver(t, source)

	q, err := r.Resolve("EUR", "RUB", true)
	require.NoError(t, err)
	assert.InDelta(t, 1.1/0.011, q.Rate, 1e-9)
	assert.Equal(t, "fallback", q.Source)
}

func TestResolveNotFound(t *testing.T) {
	r, _ := newTestResolver(t)
	_, err := r.Resolve("ETH", "JPY", true)
	var rerr *ExchangeRateNotFoundError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "ETH", rerr.From)
	assert.Equal(t, "JPY", rerr.To)
}

func TestResolveFirstSourceWithPairWins(t *testing.T) {
	first := &stubSource{name: "first", rates: map[string]float64{"SOL_USD": 150}}
	second := &stubSource{name: "second", rates: map[string]float64{"SOL_USD": 999}}
	r, _ := newTestResolver(t, first, second)

	q, err := r.Resolve("SOL", "USD", true)
	require.NoError(t, err)
	assert.Equal(t, 150.0, q.Rate)
	assert.Equal(t, "first", q.Source)
	assert.Zero(t, second.calls)
}
