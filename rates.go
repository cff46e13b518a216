package hub

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PairKey builds the directed cache key "FROM_TO".
func PairKey(from, to string) string { return from + "_" + to }

// RateEntry is one cached rate. UpdatedAt is kept as the raw stored string:
// freshness checks parse it lazily, and an unparsable value means the entry
// is used as-is without a freshness check rather than rejected.
type RateEntry struct {
	Rate      float64 `json:"rate"`
	UpdatedAt string  `json:"updated_at"`
	Source    string  `json:"source"`
}

// RateSnapshot is the persisted shape of the rate cache. Only direct pairs
// are stored; inverse pairs are derived as 1/rate.
type RateSnapshot struct {
	Pairs       map[string]RateEntry `json:"pairs"`
	Source      string               `json:"source"`
	LastRefresh string               `json:"last_refresh"`
}

// NewRateSnapshot returns an empty snapshot.
func NewRateSnapshot() *RateSnapshot {
	return &RateSnapshot{Pairs: make(map[string]RateEntry)}
}

// RateHistoryRecord is one line of the append-only audit trail.
type RateHistoryRecord struct {
	ID           string         `json:"id"`
	FromCurrency string         `json:"from_currency"`
	ToCurrency   string         `json:"to_currency"`
	Rate         float64        `json:"rate"`
	Timestamp    string         `json:"timestamp"`
	Source       string         `json:"source"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// NewRateHistoryRecord builds an audit record for one refreshed pair.
func NewRateHistoryRecord(from, to string, rate float64, source string, at time.Time, meta map[string]any) RateHistoryRecord {
	return RateHistoryRecord{
		ID:           uuid.NewString(),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Timestamp:    at.UTC().Format(time.RFC3339),
		Source:       source,
		Meta:         meta,
	}
}

// RateSource is an external rate provider. Fetch returns a mapping of
// "CODE_USD" pair keys to rates, or an APIRequestError on network or
// parse failure.
type RateSource interface {
	Name() string
	Fetch() (map[string]float64, error)
}

// FallbackRates is the static reference table of currency→USD values used
// only when no cached or freshly fetched rate is available.
var FallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 1.1,
	"BTC": 45000.0,
	"RUB": 0.011,
	"GBP": 1.27,
}

// Quote is a resolved exchange rate. A zero UpdatedAt means the value
// carries no timestamp (identity and fallback rates).
type Quote struct {
	Rate      float64
	UpdatedAt time.Time
	Source    string
}

// Resolver resolves rates for ordered currency pairs by combining the
// cached snapshot, TTL freshness, refresh from external sources, and the
// static fallback table.
type Resolver struct {
	registry *Registry
	store    *Store
	sources  []RateSource
	fallback map[string]float64
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewResolver builds a resolver over the given store and external sources.
func NewResolver(registry *Registry, store *Store, ttl time.Duration, log zerolog.Logger, sources ...RateSource) *Resolver {
	return &Resolver{
		registry: registry,
		store:    store,
		sources:  sources,
		fallback: FallbackRates,
		ttl:      ttl,
		now:      time.Now,
		log:      log.With().Str("module", "rates").Logger(),
	}
}

// Resolve resolves the rate from→to. With enforceTTL a cached entry older
// than the TTL triggers a refresh attempt; a failing refresh degrades to
// the stale value rather than erroring. Without enforceTTL a cached entry
// is returned as-is.
//
// Resolution order: identity, direct pair, inverse pair (as 1/rate), fresh
// external fetch, static fallback table. Each step only runs when the
// previous one found nothing.
func (r *Resolver) Resolve(from, to string, enforceTTL bool) (Quote, error) {
	fromCur, err := r.registry.Get(from)
	if err != nil {
		return Quote{}, err
	}
	toCur, err := r.registry.Get(to)
	if err != nil {
		return Quote{}, err
	}
	from, to = fromCur.Code, toCur.Code

	if from == to {
		return Quote{Rate: 1.0}, nil
	}

	snapshot, err := r.store.LoadRateCache()
	if err != nil {
		return Quote{}, err
	}

	if entry, ok := snapshot.Pairs[PairKey(from, to)]; ok && entry.Rate > 0 {
		return r.fromEntry(from, to, entry, enforceTTL, false), nil
	}
	if entry, ok := snapshot.Pairs[PairKey(to, from)]; ok && entry.Rate > 0 {
		return r.fromEntry(to, from, entry, enforceTTL, true), nil
	}

	q, err := r.refresh(from, to)
	if err == nil {
		return q, nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return Quote{}, err
	}
	r.log.Warn().Str("pair", PairKey(from, to)).Err(err).Msg("external fetch failed")

	if fromRef, ok := r.fallback[from]; ok {
		if toRef, ok := r.fallback[to]; ok && toRef > 0 {
			r.log.Debug().Str("pair", PairKey(from, to)).Msg("using fallback reference table")
			return Quote{Rate: fromRef / toRef, Source: "fallback"}, nil
		}
	}

	return Quote{}, &ExchangeRateNotFoundError{From: from, To: to}
}

// fromEntry turns a cached entry for the stored pair from→to into a quote,
// applying the freshness policy. With invert the quote is for the opposite
// direction and carries 1/rate.
func (r *Resolver) fromEntry(from, to string, entry RateEntry, enforceTTL, invert bool) Quote {
	quote := Quote{Rate: entry.Rate, Source: entry.Source}
	updatedAt, parsed := parseTimestamp(entry.UpdatedAt)
	if parsed {
		quote.UpdatedAt = updatedAt
	}
	// An unparsable timestamp disables the freshness check: the value is
	// used as-is rather than treated as an error.
	stale := enforceTTL && parsed && r.now().Sub(updatedAt) >= r.ttl
	if stale {
		if fresh, err := r.refresh(from, to); err == nil {
			quote = fresh
		} else {
			r.log.Warn().Str("pair", PairKey(from, to)).Err(err).
				Msg("refresh failed, serving stale rate")
		}
	}
	if invert {
		quote.Rate = 1 / quote.Rate
	}
	return quote
}

// refresh fetches the pair from→to from the external sources, persists the
// updated cache entry and a history record, and returns the new quote. The
// first source whose response contains the pair wins.
func (r *Resolver) refresh(from, to string) (Quote, error) {
	key := PairKey(from, to)
	var lastErr error = &ExchangeRateNotFoundError{From: from, To: to}
	for _, source := range r.sources {
		rates, err := source.Fetch()
		if err != nil {
			lastErr = err
			continue
		}
		rate, ok := rates[key]
		if !ok || rate <= 0 {
			continue
		}
		now := r.now().UTC()
		if err := r.persist(from, to, rate, source.Name(), now); err != nil {
			return Quote{}, err
		}
		r.log.Info().Str("pair", key).Float64("rate", rate).
			Str("source", source.Name()).Msg("rate refreshed")
		return Quote{Rate: rate, UpdatedAt: now, Source: source.Name()}, nil
	}
	return Quote{}, lastErr
}

func (r *Resolver) persist(from, to string, rate float64, source string, now time.Time) error {
	snapshot, err := r.store.LoadRateCache()
	if err != nil {
		return err
	}
	timestamp := now.Format(time.RFC3339)
	snapshot.Pairs[PairKey(from, to)] = RateEntry{Rate: rate, UpdatedAt: timestamp, Source: source}
	if err := r.store.SaveRateCache(snapshot); err != nil {
		return err
	}
	return r.store.AppendRateHistory(NewRateHistoryRecord(from, to, rate, source, now, nil))
}

// parseTimestamp parses a stored updated_at value, accepting the formats
// past revisions have written.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
