// Package listing shapes already-fetched collections for the list
// views: conjunctive filtering and stable sorting, always against the
// full snapshot returned by the upstream API. Nothing here talks to
// the network.
package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"eduadmin/internal/domain"
)

// Course sort orders accepted by the list view.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// Price tiers accepted by the course list filter.
const (
	PriceAll  = "all"
	PriceFree = "free"
	PricePaid = "paid"
)

// CourseFilters are the course list controls. Zero values mean "no
// constraint"; Normalize fills the defaults.
type CourseFilters struct {
	Search   string  `json:"search"`
	Price    string  `json:"price"`
	Sort     string  `json:"sort"`
	MinPrice float64 `json:"min_price,omitempty"`
}

// Normalize clamps unknown values back to the defaults so a stale or
// hand-edited preference can never produce a surprising order.
func (f CourseFilters) Normalize() CourseFilters {
	switch f.Sort {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh:
	default:
		f.Sort = SortNewest
	}
	switch f.Price {
	case PriceAll, PriceFree, PricePaid:
	default:
		f.Price = PriceAll
	}
	if f.MinPrice < 0 {
		f.MinPrice = 0
	}
	return f
}

// ParseCourseFilters reads the course list controls from query values.
func ParseCourseFilters(q url.Values) CourseFilters {
	minPrice, _ := strconv.ParseFloat(q.Get("min_price"), 64)
	return CourseFilters{
		Search:   q.Get("search"),
		Price:    q.Get("price"),
		Sort:     q.Get("sort"),
		MinPrice: minPrice,
	}.Normalize()
}

// Courses filters and sorts a fetched course snapshot. The input slice
// is never mutated; repeated calls over the same snapshot yield the
// same result.
func Courses(in []domain.Course, f CourseFilters) []domain.Course {
	f = f.Normalize()
	out := make([]domain.Course, 0, len(in))
	for _, c := range in {
		if !matchesSearch(f.Search, c.Title, c.Description) {
			continue
		}
		if f.Price == PriceFree && c.Price != 0 {
			continue
		}
		if f.Price == PricePaid && c.Price <= 0 {
			continue
		}
		if c.Price < f.MinPrice {
			continue
		}
		out = append(out, c)
	}
	sortCourses(out, f.Sort)
	return out
}

func sortCourses(courses []domain.Course, order string) {
	sort.SliceStable(courses, func(i, j int) bool {
		switch order {
		case SortOldest:
			return courses[i].CreatedAt.Before(courses[j].CreatedAt)
		case SortPriceLow:
			return courses[i].Price < courses[j].Price
		case SortPriceHigh:
			return courses[i].Price > courses[j].Price
		default: // newest
			return courses[i].CreatedAt.After(courses[j].CreatedAt)
		}
	})
}

// JobFilters are the job list controls.
type JobFilters struct {
	Search string          `json:"search"`
	Type   domain.JobType  `json:"job_type,omitempty"`
	Mode   domain.WorkMode `json:"mode,omitempty"`
}

// ParseJobFilters reads the job list controls from query values.
// Unknown enum values are dropped rather than rejected.
func ParseJobFilters(q url.Values) JobFilters {
	f := JobFilters{
		Search: q.Get("search"),
		Type:   domain.JobType(q.Get("job_type")),
		Mode:   domain.WorkMode(q.Get("mode")),
	}
	if !f.Type.Valid() {
		f.Type = ""
	}
	if !f.Mode.Valid() {
		f.Mode = ""
	}
	return f
}

// Jobs filters a fetched job snapshot, newest postings first.
func Jobs(in []domain.Job, f JobFilters) []domain.Job {
	out := make([]domain.Job, 0, len(in))
	for _, j := range in {
		if !matchesSearch(f.Search, j.Title, j.Description, j.CompanyName) {
			continue
		}
		if f.Type != "" && j.JobType != f.Type {
			continue
		}
		if f.Mode != "" && j.Mode != f.Mode {
			continue
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedDate.After(out[j].PostedDate)
	})
	return out
}

// Applications filters a fetched application list by status. An empty
// status keeps everything.
func Applications(in []domain.Application, status domain.ApplicationStatus) []domain.Application {
	if status == "" {
		return append([]domain.Application(nil), in...)
	}
	out := make([]domain.Application, 0, len(in))
	for _, a := range in {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// RecentCourses returns the n most recently created courses.
func RecentCourses(in []domain.Course, n int) []domain.Course {
	out := append([]domain.Course(nil), in...)
	sortCourses(out, SortNewest)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentJobs returns the n most recently posted jobs.
func RecentJobs(in []domain.Job, n int) []domain.Job {
	out := Jobs(in, JobFilters{})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// matchesSearch is a case-insensitive substring match over any of the
// given fields. An empty term matches everything.
func matchesSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
