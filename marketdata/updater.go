package marketdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valutatrade/hub"
)

// UpdateResult reports one refresh run: how many pairs were written and
// which providers failed. A run with partial failures still succeeds.
type UpdateResult struct {
	Updated int
	Errors  []string
}

// Updater pulls rates from the configured providers and persists a cache
// snapshot plus one history record per updated pair.
type Updater struct {
	store   *hub.Store
	sources []hub.RateSource
	now     func() time.Time
	log     zerolog.Logger
}

// NewUpdater builds an updater over the given store and providers.
func NewUpdater(store *hub.Store, log zerolog.Logger, sources ...hub.RateSource) *Updater {
	return &Updater{
		store:   store,
		sources: sources,
		now:     time.Now,
		log:     log.With().Str("module", "marketdata").Logger(),
	}
}

// Run refreshes rates from the providers selected by selector: "all" (or
// empty) for every provider, otherwise a single provider name matched
// case-insensitively ("coingecko", "exchangerate-api").
//
// Per-provider failures are recorded and the run continues; rates are
// merged last-writer-wins per pair in provider order. The snapshot is
// written once with a shared refresh timestamp. Run fails only when every
// selected provider failed and nothing was fetched.
func (u *Updater) Run(selector string) (*UpdateResult, error) {
	selected, err := u.pick(selector)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]float64)
	origins := make(map[string]string)
	var errs []string
	for _, source := range selected {
		u.log.Info().Str("provider", source.Name()).Msg("fetching rates")
		rates, err := source.Fetch()
		if err != nil {
			u.log.Error().Str("provider", source.Name()).Err(err).Msg("fetch failed")
			errs = append(errs, fmt.Sprintf("failed to fetch from %s: %v", source.Name(), err))
			continue
		}
		u.log.Info().Str("provider", source.Name()).Int("rates", len(rates)).Msg("fetch done")
		for pair, rate := range rates {
			if rate <= 0 {
				continue
			}
			merged[pair] = rate
			origins[pair] = source.Name()
		}
	}

	if len(merged) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("rate update failed: %s", strings.Join(errs, "; "))
		}
		return &UpdateResult{}, nil
	}

	if err := u.persist(merged, origins); err != nil {
		return nil, err
	}
	return &UpdateResult{Updated: len(merged), Errors: errs}, nil
}

func (u *Updater) pick(selector string) ([]hub.RateSource, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" || selector == "all" {
		return u.sources, nil
	}
	for _, source := range u.sources {
		name := strings.ToLower(source.Name())
		if name == selector || strings.HasPrefix(name, selector) {
			return []hub.RateSource{source}, nil
		}
	}
	return nil, hub.Validationf("unknown rate source %q", selector)
}

// persist overwrites the cached pairs with the merged rates under a single
// refresh timestamp and appends one history record per pair.
func (u *Updater) persist(merged map[string]float64, origins map[string]string) error {
	snapshot, err := u.store.LoadRateCache()
	if err != nil {
		return err
	}
	now := u.now().UTC()
	timestamp := now.Format(time.RFC3339)

	records := make([]hub.RateHistoryRecord, 0, len(merged))
	for pair, rate := range merged {
		origin := origins[pair]
		snapshot.Pairs[pair] = hub.RateEntry{Rate: rate, UpdatedAt: timestamp, Source: origin}

		from, to, ok := strings.Cut(pair, "_")
		if !ok {
			continue
		}
		records = append(records, hub.NewRateHistoryRecord(from, to, rate, origin, now, nil))
	}
	snapshot.Source = "marketdata"
	snapshot.LastRefresh = timestamp

	if err := u.store.SaveRateCache(snapshot); err != nil {
		return err
	}
	if err := u.store.AppendRateHistory(records...); err != nil {
		return err
	}
	u.log.Info().Int("updated", len(merged)).Str("refresh", timestamp).Msg("rate cache written")
	return nil
}
