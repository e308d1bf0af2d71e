package discovery

import (
	"strings"

	"github.com/AnTengye/mediconnect/model"
)

// Filter returns the records matching every criterion, in input order.
func Filter(records []model.Provider, c Criteria) []model.Provider {
	search := strings.ToLower(c.Search)
	location := strings.ToLower(c.Location)

	result := make([]model.Provider, 0, len(records))
	for _, p := range records {
		if c.ApprovedOnly && !p.Approved {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if c.Specialization != "" && p.Specialization != c.Specialization {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if c.RateBucket != RateAny && !InBucket(p.Rate, c.RateBucket) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// matchesSearch expects search to be lowercased already
func matchesSearch(p model.Provider, search string) bool {
	return strings.Contains(strings.ToLower(p.FullName()), search) ||
		strings.Contains(strings.ToLower(p.Specialization), search) ||
		strings.Contains(strings.ToLower(p.Location), search) ||
		strings.Contains(strings.ToLower(p.Email), search)
}

// InBucket reports whether rate falls in bucket. Invalid rates and unknown
// bucket identifiers never match.
func InBucket(rate model.Rate, bucket RateBucket) bool {
	if !rate.Valid() {
		return false
	}
	r := rate.Amount()
	switch bucket {
	case Rate0To100:
		return r <= 100
	case Rate101To200:
		return r > 100 && r <= 200
	case Rate201To300:
		return r > 200 && r <= 300
	case Rate301Plus:
		return r > 300
	}
	return false
}
