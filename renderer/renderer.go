// Package renderer produces the markdown shown by the CLI commands.
package renderer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/valutatrade/hub"
)

// FormatAmount renders a decimal amount in the conventions of its currency
// (symbol, thousands separator, fraction digits).
func FormatAmount(value decimal.Decimal, code string) string {
	cur := money.New(0, code).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Portfolio renders the valued portfolio as a markdown table. Wallets whose
// rate could not be resolved show "N/A" in the value column; the total sums
// the valued wallets only.
func Portfolio(username, base string, values []hub.WalletValue, total decimal.Decimal) string {
	if len(values) == 0 {
		return fmt.Sprintf("Portfolio of %q is empty.\n", username)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio of %q (base: %s)\n\n", username, base)
	fmt.Fprintf(&b, "| Currency | Balance | Value (%s) |\n", base)
	b.WriteString("|---|---:|---:|\n")
	for _, v := range values {
		value := "N/A"
		if v.Valued {
			value = FormatAmount(v.Value, base)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", v.Code, v.Balance.StringFixed(4), value)
	}
	fmt.Fprintf(&b, "\n**Total: %s**\n", FormatAmount(total, base))
	return b.String()
}

// Trade renders a buy or sell result. op is the past-tense verb.
func Trade(op string, r *hub.TradeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", op, r.Amount.StringFixed(4), r.Currency)
	if r.Valued {
		fmt.Fprintf(&b, " at %.2f USD/%s", r.Rate, r.Currency)
	}
	fmt.Fprintf(&b, "\n\n- %s: %s -> %s\n", r.Currency, r.OldBalance.StringFixed(4), r.NewBalance.StringFixed(4))
	if r.Valued {
		fmt.Fprintf(&b, "- estimated value: %s\n", FormatAmount(r.ValueUSD, "USD"))
	}
	return b.String()
}

// Quote renders a resolved rate, with the reverse rate when available.
func Quote(from, to string, q hub.Quote, reverse *hub.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rate %s->%s: %.8f", from, to, q.Rate)
	if !q.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, " (updated: %s)", q.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if q.Source != "" {
		fmt.Fprintf(&b, " [%s]", q.Source)
	}
	b.WriteString("\n")
	if reverse != nil {
		fmt.Fprintf(&b, "Reverse rate %s->%s: %.2f\n", to, from, reverse.Rate)
	}
	return b.String()
}

// Rates renders the cached snapshot as a markdown table, optionally
// filtered to pairs involving one currency and limited to the top n rates
// by value. A zero n means no limit.
func Rates(snapshot *hub.RateSnapshot, currency string, top int) string {
	type row struct {
		pair  string
		entry hub.RateEntry
	}
	rows := make([]row, 0, len(snapshot.Pairs))
	for pair, entry := range snapshot.Pairs {
		if currency != "" && !strings.Contains(pair, currency) {
			continue
		}
		rows = append(rows, row{pair, entry})
	}
	if len(rows) == 0 {
		return "No cached rates. Run update-rates first.\n"
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].entry.Rate != rows[j].entry.Rate {
			return rows[i].entry.Rate > rows[j].entry.Rate
		}
		return rows[i].pair < rows[j].pair
	})
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	var b strings.Builder
	b.WriteString("| Pair | Rate | Updated | Source |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, r := range rows {
		updated := r.entry.UpdatedAt
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			updated = t.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "| %s | %.8f | %s | %s |\n", r.pair, r.entry.Rate, updated, r.entry.Source)
	}
	if snapshot.LastRefresh != "" {
		fmt.Fprintf(&b, "\nLast refresh: %s\n", snapshot.LastRefresh)
	}
	return b.String()
}

// Currencies renders the catalog, one display line per currency.
func Currencies(currencies []hub.Currency) string {
	var b strings.Builder
	b.WriteString("# Supported currencies\n\n")
	for _, c := range currencies {
		fmt.Fprintf(&b, "- %s\n", c.DisplayInfo())
	}
	return b.String()
}
