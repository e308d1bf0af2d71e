package discovery

import (
	"github.com/AnTengye/mediconnect/model"
)

// Result is the outcome of one pipeline run
type Result struct {
	Page[model.Provider]
	Criteria Criteria `json:"criteria"`
}

// Run applies Filter, Sort and Paginate in that order.
func Run(records []model.Provider, c Criteria, page, size int, opts ...SortOption) Result {
	matches := Filter(records, c)
	ordered := Sort(matches, c.Sort, opts...)
	return Result{
		Page:     Paginate(ordered, page, size),
		Criteria: c,
	}
}
