// Package filter narrows and orders a search result set. Everything here is pure: the
// input slice is never modified and the same inputs always produce the same output.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/format"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

// Bound is an optional price bound. The zero value is unbounded.
type Bound struct {
	value float64
	set   bool
}

// Unbounded returns a bound that admits every price
func Unbounded() Bound {
	return Bound{}
}

// At returns a bound fixed at v
func At(v float64) Bound {
	return Bound{value: v, set: true}
}

// ParseBound reads a price input. Blank, non-numeric and zero inputs are unbounded.
func ParseBound(s string) Bound {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v == 0 {
		return Unbounded()
	}
	return At(v)
}

// Value returns the bound and whether it is set
func (b Bound) Value() (float64, bool) {
	return b.value, b.set
}

// String renders the bound for an input field; unbounded renders empty
func (b Bound) String() string {
	if !b.set {
		return ""
	}
	return strconv.FormatFloat(b.value, 'f', -1, 64)
}

// TimeBucket groups departures by time of day
type TimeBucket string

const (
	BucketAll       TimeBucket = "all"
	BucketMorning   TimeBucket = "morning"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
)

// ParseBucket maps a selector value to a bucket, defaulting to all
func ParseBucket(s string) TimeBucket {
	switch TimeBucket(s) {
	case BucketMorning, BucketAfternoon, BucketEvening:
		return TimeBucket(s)
	default:
		return BucketAll
	}
}

// Contains reports whether a departure hour falls in the bucket.
// Evening wraps midnight: 18:00 up to 05:59.
func (b TimeBucket) Contains(hour int) bool {
	switch b {
	case BucketMorning:
		return hour >= 6 && hour < 12
	case BucketAfternoon:
		return hour >= 12 && hour < 18
	case BucketEvening:
		return hour >= 18 || hour < 6
	default:
		return true
	}
}

// SortKey orders the filtered results
type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortTimeAsc   SortKey = "time-asc"
	SortTimeDesc  SortKey = "time-desc"
)

// ParseSort maps a selector value to a sort key; unknown values leave the order untouched
func ParseSort(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortTimeAsc, SortTimeDesc:
		return SortKey(s)
	default:
		return SortNone
	}
}

// State is the set of active filter controls
type State struct {
	MinPrice Bound
	MaxPrice Bound
	Bucket   TimeBucket
	Sort     SortKey
}

// Default is the state right after a search: no bounds, all day, server order
func Default() State {
	return State{Bucket: BucketAll, Sort: SortNone}
}

// Reset is the state behind the "Reset Filters" action
func Reset() State {
	return State{Bucket: BucketAll, Sort: SortPriceAsc}
}

// Admits reports whether a single flight passes the bounds and the time bucket
func (s State) Admits(f models.FlightSearchResult) bool {
	if lo, ok := s.MinPrice.Value(); ok && f.Price < lo {
		return false
	}
	if hi, ok := s.MaxPrice.Value(); ok && f.Price > hi {
		return false
	}
	bucket := s.Bucket
	if bucket == "" {
		bucket = BucketAll
	}
	if bucket == BucketAll {
		return true
	}
	hour, _, err := format.ParseClock(f.DepartureTime)
	if err != nil {
		return false
	}
	return bucket.Contains(hour)
}

// Apply returns the flights admitted by s, ordered by s.Sort. Ties keep server order.
func Apply(flights []models.FlightSearchResult, s State) []models.FlightSearchResult {
	out := make([]models.FlightSearchResult, 0, len(flights))
	for _, f := range flights {
		if s.Admits(f) {
			out = append(out, f)
		}
	}

	switch s.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortTimeAsc:
		sort.SliceStable(out, func(i, j int) bool { return minuteOfDay(out[i]) < minuteOfDay(out[j]) })
	case SortTimeDesc:
		sort.SliceStable(out, func(i, j int) bool { return minuteOfDay(out[i]) > minuteOfDay(out[j]) })
	}
	return out
}

// minuteOfDay orders unparseable departures after 23:59
func minuteOfDay(f models.FlightSearchResult) int {
	hour, minute, err := format.ParseClock(f.DepartureTime)
	if err != nil {
		return 24 * 60
	}
	return hour*60 + minute
}
