package discovery

import (
	"cmp"
	"slices"

	"github.com/AnTengye/mediconnect/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is used for name ordering when no locale is configured
var DefaultLocale = language.English

type sortOptions struct {
	locale language.Tag
}

// SortOption configures Sort and Run
type SortOption func(*sortOptions)

// WithLocale sets the collation locale for name ordering
func WithLocale(tag language.Tag) SortOption {
	return func(o *sortOptions) {
		o.locale = tag
	}
}

// Sort returns a stably sorted copy of matches. Unknown keys keep input order.
func Sort(matches []model.Provider, key SortKey, opts ...SortOption) []model.Provider {
	o := sortOptions{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&o)
	}

	ordered := slices.Clone(matches)
	switch key {
	case SortName:
		// A Collator keeps internal buffers, so one per call.
		col := collate.New(o.locale)
		slices.SortStableFunc(ordered, func(a, b model.Provider) int {
			return col.CompareString(a.FullName(), b.FullName())
		})
	case SortRateLow:
		slices.SortStableFunc(ordered, func(a, b model.Provider) int {
			return compareRate(a.Rate, b.Rate, false)
		})
	case SortRateHigh:
		slices.SortStableFunc(ordered, func(a, b model.Provider) int {
			return compareRate(a.Rate, b.Rate, true)
		})
	}
	return ordered
}

// compareRate orders valid rates ascending, or descending when desc is set.
// Invalid rates go after every valid one in both directions.
func compareRate(a, b model.Rate, desc bool) int {
	switch {
	case !a.Valid() && !b.Valid():
		return 0
	case !a.Valid():
		return 1
	case !b.Valid():
		return -1
	}
	if desc {
		return cmp.Compare(b.Amount(), a.Amount())
	}
	return cmp.Compare(a.Amount(), b.Amount())
}
