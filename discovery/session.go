package discovery

import (
	"github.com/AnTengye/mediconnect/model"
)

// Session tracks the criteria and current page of one search view.
// Changing any filter resets the page to 1; changing the sort or the page
// size does not. The current page is clamped on every Run.
//
// A Session is not safe for concurrent use.
type Session struct {
	criteria   Criteria
	page       int
	pageSize   int
	totalPages int
	opts       []SortOption
}

// NewSession starts a search at page 1 with DefaultCriteria
func NewSession(pageSize int, opts ...SortOption) *Session {
	return &Session{
		criteria:   DefaultCriteria(),
		page:       1,
		pageSize:   normalizeSize(pageSize),
		totalPages: 1,
		opts:       opts,
	}
}

func (s *Session) Criteria() Criteria { return s.criteria }

func (s *Session) Page() int { return s.page }

func (s *Session) PageSize() int { return s.pageSize }

// TotalPages is the page count computed by the last Run
func (s *Session) TotalPages() int { return s.totalPages }

// SetCriteria replaces the criteria, resetting the page when any filter changed
func (s *Session) SetCriteria(c Criteria) {
	if !sameFilters(s.criteria, c) {
		s.page = 1
	}
	s.criteria = c
}

// SetSort changes only the ordering
func (s *Session) SetSort(key SortKey) {
	s.criteria.Sort = key
}

// SetPageSize changes the page size without resetting the current page
func (s *Session) SetPageSize(size int) {
	s.pageSize = normalizeSize(size)
}

// ClearFilters restores DefaultCriteria and page 1
func (s *Session) ClearFilters() {
	s.criteria = DefaultCriteria()
	s.page = 1
}

// GoTo moves to page if it lies in [1, TotalPages]; otherwise it is a no-op.
func (s *Session) GoTo(page int) bool {
	if page < 1 || page > s.totalPages {
		return false
	}
	s.page = page
	return true
}

func (s *Session) Next() bool { return s.GoTo(s.page + 1) }

func (s *Session) Prev() bool { return s.GoTo(s.page - 1) }

// Run recomputes the visible page for records
func (s *Session) Run(records []model.Provider) Result {
	res := Run(records, s.criteria, s.page, s.pageSize, s.opts...)
	s.totalPages = res.TotalPages
	s.page = res.Number
	return res
}
