// Package discovery computes the visible page of a provider search:
// filter, then sort, then paginate. Every function is pure; inputs are
// never mutated and no function returns an error.
package discovery

// RateBucket names a fixed fee range. The empty bucket applies no filter.
type RateBucket string

const (
	RateAny      RateBucket = ""
	Rate0To100   RateBucket = "0-100"
	Rate101To200 RateBucket = "101-200"
	Rate201To300 RateBucket = "201-300"
	Rate301Plus  RateBucket = "301+"
)

// RateBuckets lists the selectable buckets in display order
var RateBuckets = []RateBucket{Rate0To100, Rate101To200, Rate201To300, Rate301Plus}

// Label returns the human readable range shown in the filter dropdown
func (b RateBucket) Label() string {
	switch b {
	case RateAny:
		return "Any Fee Range"
	case Rate0To100:
		return "$0 - $100"
	case Rate101To200:
		return "$101 - $200"
	case Rate201To300:
		return "$201 - $300"
	case Rate301Plus:
		return "$301+"
	}
	return string(b)
}

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortName     SortKey = "name"
	SortRateLow  SortKey = "rate_low"
	SortRateHigh SortKey = "rate_high"
)

// SortKeys lists the supported orderings
var SortKeys = []SortKey{SortName, SortRateLow, SortRateHigh}

// Label returns the human readable sort option
func (k SortKey) Label() string {
	switch k {
	case SortName:
		return "Name (A-Z)"
	case SortRateLow:
		return "Rate (Low to High)"
	case SortRateHigh:
		return "Rate (High to Low)"
	}
	return string(k)
}

// Criteria holds the search parameters. Zero-valued filters match all.
type Criteria struct {
	Search         string     `json:"search"`
	Specialization string     `json:"specialization"`
	Location       string     `json:"location"`
	RateBucket     RateBucket `json:"rate"`
	ApprovedOnly   bool       `json:"approved_only"`
	Sort           SortKey    `json:"sort"`
}

// DefaultCriteria returns the criteria a fresh search starts from
func DefaultCriteria() Criteria {
	return Criteria{
		ApprovedOnly: true,
		Sort:         SortName,
	}
}

// sameFilters reports whether a and b select the same records.
// Sort does not take part.
func sameFilters(a, b Criteria) bool {
	return a.Search == b.Search &&
		a.Specialization == b.Specialization &&
		a.Location == b.Location &&
		a.RateBucket == b.RateBucket &&
		a.ApprovedOnly == b.ApprovedOnly
}
