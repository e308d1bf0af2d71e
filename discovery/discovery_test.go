package discovery

import (
	"testing"

	"github.com/AnTengye/mediconnect/model"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func provider(id, first, last string, rate float64, approved bool) model.Provider {
	return model.Provider{
		ID:             id,
		FirstName:      first,
		LastName:       last,
		Email:          first + "@clinic.test",
		Specialization: model.SpecGeneralPractice,
		Location:       "Downtown",
		Rate:           model.NewRate(rate),
		Approved:       approved,
	}
}

func ids(ps []model.Provider) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func sampleRoster() []model.Provider {
	return []model.Provider{
		{ID: "1", FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@medical.com", Specialization: model.SpecCardiologist, Location: "Downtown Medical Center", Rate: model.NewRate(200), Approved: true},
		{ID: "2", FirstName: "Michael", LastName: "Chen", Email: "michael.chen@clinic.com", Specialization: model.SpecDermatologist, Location: "Westside Clinic", Rate: model.NewRate(180), Approved: true},
		{ID: "3", FirstName: "Emily", LastName: "Rodriguez", Email: "emily.rodriguez@hospital.com", Specialization: model.SpecPediatrician, Location: "Children's Health Center", Rate: model.NewRate(150), Approved: true},
		{ID: "4", FirstName: "James", LastName: "Wilson", Email: "james.wilson@sports.com", Specialization: model.SpecOrthopedicSurgeon, Location: "Sports Medicine Institute", Rate: model.NewRate(250), Approved: true},
		{ID: "5", FirstName: "Lisa", LastName: "Anderson", Email: "lisa.anderson@mental.com", Specialization: model.SpecPsychiatrist, Location: "Mental Health Center", Rate: model.NewRate(220), Approved: true},
		{ID: "6", FirstName: "Robert", LastName: "Kim", Email: "robert.kim@neuro.com", Specialization: model.SpecNeurologist, Location: "Brain & Spine Center", Rate: model.NewRate(240), Approved: false},
	}
}

func TestRunExample(t *testing.T) {
	records := []model.Provider{
		provider("bob", "Bob", "", 50, true),
		provider("ann", "Ann", "", 300, true),
		provider("cid", "Cid", "", 150, false),
	}
	c := Criteria{ApprovedOnly: true, Sort: SortName}

	filtered := Filter(records, c)
	if diff := cmp.Diff([]string{"bob", "ann"}, ids(filtered)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}

	sorted := Sort(filtered, c.Sort)
	if diff := cmp.Diff([]string{"ann", "bob"}, ids(sorted)); diff != "" {
		t.Fatalf("sort mismatch (-want +got):\n%s", diff)
	}

	res := Run(records, c, 1, 10)
	if diff := cmp.Diff([]string{"ann", "bob"}, ids(res.Items)); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
	if res.TotalPages != 1 {
		t.Errorf("Expected 1 total page, got %d", res.TotalPages)
	}
}

func TestFilter(t *testing.T) {
	roster := sampleRoster()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"defaults hide unapproved", DefaultCriteria(), []string{"1", "2", "3", "4", "5"}},
		{"include unapproved", Criteria{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"search by name", Criteria{Search: "SARAH j"}, []string{"1"}},
		{"search by specialization", Criteria{Search: "derma"}, []string{"2"}},
		{"search by location", Criteria{Search: "center"}, []string{"1", "3", "5", "6"}},
		{"search by email", Criteria{Search: "@sports"}, []string{"4"}},
		{"specialization exact", Criteria{Specialization: model.SpecPediatrician}, []string{"3"}},
		{"specialization is case sensitive", Criteria{Specialization: "pediatrician"}, []string{}},
		{"location substring", Criteria{Location: "westside"}, []string{"2"}},
		{"rate bucket", Criteria{RateBucket: Rate201To300, ApprovedOnly: true}, []string{"4", "5"}},
		{"unknown bucket matches nothing", Criteria{RateBucket: "cheap"}, []string{}},
		{"conjunction", Criteria{Search: "center", RateBucket: Rate201To300, ApprovedOnly: true}, []string{"5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(roster, tt.criteria))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterApprovedOnly(t *testing.T) {
	roster := sampleRoster()
	for _, c := range []Criteria{
		{ApprovedOnly: true},
		{ApprovedOnly: true, Search: "kim"},
		{ApprovedOnly: true, Specialization: model.SpecNeurologist},
		{ApprovedOnly: true, RateBucket: Rate201To300},
	} {
		for _, p := range Filter(roster, c) {
			if !p.Approved {
				t.Errorf("criteria %+v returned unapproved provider %s", c, p.ID)
			}
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	roster := sampleRoster()
	for _, c := range []Criteria{
		DefaultCriteria(),
		{Search: "center"},
		{RateBucket: Rate101To200, Location: "c"},
	} {
		once := Filter(roster, c)
		twice := Filter(once, c)
		if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
			t.Errorf("Filter not idempotent for %+v (-once +twice):\n%s", c, diff)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	roster := sampleRoster()
	before := ids(roster)
	Filter(roster, Criteria{Search: "sarah"})
	Sort(roster, SortRateHigh)
	if diff := cmp.Diff(before, ids(roster)); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestRateBucketBoundaries(t *testing.T) {
	records := []model.Provider{
		provider("100", "A", "A", 100, true),
		provider("101", "B", "B", 101, true),
		provider("200", "C", "C", 200, true),
		provider("201", "D", "D", 201, true),
	}

	got := ids(Filter(records, Criteria{RateBucket: Rate101To200}))
	if diff := cmp.Diff([]string{"101", "200"}, got); diff != "" {
		t.Errorf("bucket mismatch (-want +got):\n%s", diff)
	}
}

func TestInBucket(t *testing.T) {
	tests := []struct {
		rate   model.Rate
		bucket RateBucket
		want   bool
	}{
		{model.NewRate(0), Rate0To100, true},
		{model.NewRate(100), Rate0To100, true},
		{model.NewRate(100.01), Rate0To100, false},
		{model.NewRate(100.01), Rate101To200, true},
		{model.NewRate(300), Rate201To300, true},
		{model.NewRate(300), Rate301Plus, false},
		{model.NewRate(300.5), Rate301Plus, true},
		{model.ParseRate("n/a"), Rate0To100, false},
		{model.ParseRate("n/a"), Rate301Plus, false},
		{model.NewRate(50), "bogus", false},
	}

	for _, tt := range tests {
		if got := InBucket(tt.rate, tt.bucket); got != tt.want {
			t.Errorf("InBucket(%s, %q) = %v, want %v", tt.rate, tt.bucket, got, tt.want)
		}
	}
}

func TestSort(t *testing.T) {
	roster := sampleRoster()

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortName, []string{"3", "4", "5", "2", "6", "1"}},
		{SortRateLow, []string{"3", "2", "1", "5", "6", "4"}},
		{SortRateHigh, []string{"4", "6", "5", "1", "2", "3"}},
		{"unknown", []string{"1", "2", "3", "4", "5", "6"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(Sort(roster, tt.key))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sort mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortStable(t *testing.T) {
	records := []model.Provider{
		provider("a", "Zed", "Same", 100, true),
		provider("b", "Amy", "Same", 100, true),
		provider("c", "Bea", "Same", 50, true),
		provider("d", "Amy", "Same", 100, true),
	}

	if diff := cmp.Diff([]string{"c", "a", "b", "d"}, ids(Sort(records, SortRateLow))); diff != "" {
		t.Errorf("rate_low not stable (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "d", "c"}, ids(Sort(records, SortRateHigh))); diff != "" {
		t.Errorf("rate_high not stable (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "d", "c", "a"}, ids(Sort(records, SortName))); diff != "" {
		t.Errorf("name not stable (-want +got):\n%s", diff)
	}
}

func TestSortNameIsLocaleAware(t *testing.T) {
	records := []model.Provider{
		provider("zoe", "Zoë", "Adams", 1, true),
		provider("emil", "Émile", "Durand", 1, true),
		provider("eva", "eva", "Stone", 1, true),
		provider("fay", "Fay", "Brown", 1, true),
	}

	got := ids(Sort(records, SortName, WithLocale(language.French)))
	if diff := cmp.Diff([]string{"emil", "eva", "fay", "zoe"}, got); diff != "" {
		t.Errorf("collation mismatch (-want +got):\n%s", diff)
	}
}

func TestSortInvalidRates(t *testing.T) {
	// Providers without a usable rate trail both rate orderings, in input order.
	records := []model.Provider{
		{ID: "none", FirstName: "N", Rate: model.ParseRate("")},
		provider("a", "A", "A", 20, true),
		{ID: "bad", FirstName: "X", Rate: model.ParseRate("abc")},
		provider("b", "B", "B", 10, true),
	}

	if diff := cmp.Diff([]string{"b", "a", "none", "bad"}, ids(Sort(records, SortRateLow))); diff != "" {
		t.Errorf("rate_low mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "none", "bad"}, ids(Sort(records, SortRateHigh))); diff != "" {
		t.Errorf("rate_high mismatch (-want +got):\n%s", diff)
	}
}
