package filter

import (
	"testing"

	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/stretchr/testify/assert"
)

func sampleFlights() []models.FlightSearchResult {
	return []models.FlightSearchResult{
		{ID: 1, FlightNumber: "AI101", DepartureTime: "05:30", Price: 3200},
		{ID: 2, FlightNumber: "6E202", DepartureTime: "09:15", Price: 4100.5},
		{ID: 3, FlightNumber: "UK303", DepartureTime: "12:00", Price: 2750},
		{ID: 4, FlightNumber: "SG404", DepartureTime: "17:59", Price: 5600},
		{ID: 5, FlightNumber: "QP505", DepartureTime: "23:10", Price: 3900},
	}
}

func ids(flights []models.FlightSearchResult) []int64 {
	out := make([]int64, len(flights))
	for i, f := range flights {
		out[i] = f.ID
	}
	return out
}

func TestApply_OpenStateIsIdentity(t *testing.T) {
	flights := sampleFlights()
	st := State{MinPrice: At(0), MaxPrice: At(999999), Bucket: BucketAll, Sort: SortNone}

	assert.Equal(t, flights, Apply(flights, st))
	assert.Equal(t, flights, Apply(flights, Default()))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	flights := sampleFlights()
	before := ids(flights)

	Apply(flights, State{Bucket: BucketAll, Sort: SortPriceDesc})

	assert.Equal(t, before, ids(flights))
}

func TestApply_PriceBoundsInclusiveAndIdempotent(t *testing.T) {
	st := State{MinPrice: At(2750), MaxPrice: At(4100.5), Bucket: BucketAll}

	once := Apply(sampleFlights(), st)
	assert.Equal(t, []int64{1, 2, 3, 5}, ids(once))
	for _, f := range once {
		assert.GreaterOrEqual(t, f.Price, 2750.0)
		assert.LessOrEqual(t, f.Price, 4100.5)
	}

	assert.Equal(t, once, Apply(once, st))
}

func TestApply_UnsetBounds(t *testing.T) {
	onlyMin := Apply(sampleFlights(), State{MinPrice: At(4000)})
	assert.Equal(t, []int64{2, 4}, ids(onlyMin))

	onlyMax := Apply(sampleFlights(), State{MaxPrice: At(3000)})
	assert.Equal(t, []int64{3}, ids(onlyMax))
}

func TestApply_PriceSortsAreReversed(t *testing.T) {
	asc := Apply(sampleFlights(), State{Sort: SortPriceAsc})
	desc := Apply(sampleFlights(), State{Sort: SortPriceDesc})

	assert.Equal(t, []int64{3, 1, 5, 2, 4}, ids(asc))

	reversed := make([]int64, len(asc))
	for i, id := range ids(asc) {
		reversed[len(asc)-1-i] = id
	}
	assert.Equal(t, reversed, ids(desc))
}

func TestApply_TimeSort(t *testing.T) {
	flights := []models.FlightSearchResult{
		{ID: 1, DepartureTime: "21:00"},
		{ID: 2, DepartureTime: "07:45"},
		{ID: 3, DepartureTime: "7:30"},
		{ID: 4, DepartureTime: "13:05"},
	}

	assert.Equal(t, []int64{3, 2, 4, 1}, ids(Apply(flights, State{Sort: SortTimeAsc})))
	assert.Equal(t, []int64{1, 4, 2, 3}, ids(Apply(flights, State{Sort: SortTimeDesc})))
}

func TestApply_TimeBuckets(t *testing.T) {
	tests := []struct {
		bucket TimeBucket
		want   []int64
	}{
		{BucketMorning, []int64{2}},
		{BucketAfternoon, []int64{3, 4}},
		{BucketEvening, []int64{1, 5}},
		{BucketAll, []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(string(tt.bucket), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleFlights(), State{Bucket: tt.bucket})))
		})
	}
}

func TestTimeBucket_EveningWrapsMidnight(t *testing.T) {
	assert.True(t, BucketEvening.Contains(23))
	assert.True(t, BucketEvening.Contains(5))
	assert.True(t, BucketEvening.Contains(18))
	assert.False(t, BucketEvening.Contains(12))
	assert.False(t, BucketEvening.Contains(6))
}

func TestApply_BadDepartureExcludedFromBuckets(t *testing.T) {
	flights := []models.FlightSearchResult{{ID: 1, DepartureTime: "tbd"}, {ID: 2, DepartureTime: "08:00"}}

	assert.Equal(t, []int64{2}, ids(Apply(flights, State{Bucket: BucketMorning})))
	assert.Equal(t, []int64{1, 2}, ids(Apply(flights, State{Bucket: BucketAll})))
	assert.Equal(t, []int64{2, 1}, ids(Apply(flights, State{Sort: SortTimeAsc})))
	assert.Equal(t, []int64{1, 2}, ids(Apply(flights, State{Sort: SortTimeDesc})))
}

func TestParseBound(t *testing.T) {
	_, set := ParseBound("").Value()
	assert.False(t, set)
	_, set = ParseBound("abc").Value()
	assert.False(t, set)
	_, set = ParseBound("0").Value()
	assert.False(t, set)

	v, set := ParseBound(" 2500.5 ").Value()
	assert.True(t, set)
	assert.Equal(t, 2500.5, v)
	assert.Equal(t, "2500.5", ParseBound("2500.5").String())
	assert.Equal(t, "", Unbounded().String())
}

func TestParseBucketAndSort(t *testing.T) {
	assert.Equal(t, BucketEvening, ParseBucket("evening"))
	assert.Equal(t, BucketAll, ParseBucket("night"))
	assert.Equal(t, SortTimeDesc, ParseSort("time-desc"))
	assert.Equal(t, SortNone, ParseSort("cheapest"))
}

func TestReset(t *testing.T) {
	st := Reset()
	assert.Equal(t, SortPriceAsc, st.Sort)
	assert.Equal(t, BucketAll, st.Bucket)
	_, set := st.MaxPrice.Value()
	assert.False(t, set)
}
