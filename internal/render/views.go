package render

import (
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/filter"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/format"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/nav"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/seatmap"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/wizard"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

// FlightCard is one search result, display-formatted
type FlightCard struct {
	ID             int64
	FlightNumber   string
	Airline        string
	Aircraft       string
	Source         string
	Destination    string
	Departure      string
	Arrival        string
	Date           string
	Price          string
	AvailableSeats int
}

// NewFlightCard formats a flight for display
func NewFlightCard(f models.FlightSearchResult) FlightCard {
	return FlightCard{
		ID:             f.ID,
		FlightNumber:   f.FlightNumber,
		Airline:        orDefault(f.Airline, "Airline"),
		Aircraft:       orDefault(f.Aircraft, "Aircraft"),
		Source:         f.Source,
		Destination:    f.Destination,
		Departure:      format.Time(f.DepartureTime),
		Arrival:        format.Time(f.ArrivalTime),
		Date:           format.Date(f.Date),
		Price:          format.Price(f.Price),
		AvailableSeats: f.AvailableSeats,
	}
}

// ResultsView is the result list area
type ResultsView struct {
	Show    bool
	Flights []FlightCard
	Count   int
	// FilteredOut is set when there are results but none pass the filters
	FilteredOut bool
}

// NewResultsView projects the search state and the filtered flights
func NewResultsView(st session.SearchState, visible []models.FlightSearchResult) ResultsView {
	if st.Status != session.SearchResults {
		return ResultsView{}
	}
	cards := make([]FlightCard, len(visible))
	for i, f := range visible {
		cards[i] = NewFlightCard(f)
	}
	return ResultsView{
		Show:        true,
		Flights:     cards,
		Count:       len(cards),
		FilteredOut: len(cards) == 0,
	}
}

// Option is a select box entry
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FilterView is the filter panel
type FilterView struct {
	Show     bool
	MinPrice string
	MaxPrice string
	Buckets  []Option
	Sorts    []Option
}

// NewFilterView projects the filter settings
func NewFilterView(show bool, fs filter.State) FilterView {
	bucket := fs.Bucket
	if bucket == "" {
		bucket = filter.BucketAll
	}
	buckets := []Option{
		{Value: string(filter.BucketAll), Label: "Any time"},
		{Value: string(filter.BucketMorning), Label: "Morning (6AM - 12PM)"},
		{Value: string(filter.BucketAfternoon), Label: "Afternoon (12PM - 6PM)"},
		{Value: string(filter.BucketEvening), Label: "Evening (6PM - 6AM)"},
	}
	for i := range buckets {
		buckets[i].Selected = buckets[i].Value == string(bucket)
	}

	sorts := []Option{
		{Value: string(filter.SortNone), Label: "Recommended"},
		{Value: string(filter.SortPriceAsc), Label: "Price: Low to High"},
		{Value: string(filter.SortPriceDesc), Label: "Price: High to Low"},
		{Value: string(filter.SortTimeAsc), Label: "Departure: Earliest"},
		{Value: string(filter.SortTimeDesc), Label: "Departure: Latest"},
	}
	for i := range sorts {
		sorts[i].Selected = sorts[i].Value == string(fs.Sort)
	}

	return FilterView{
		Show:     show,
		MinPrice: fs.MinPrice.String(),
		MaxPrice: fs.MaxPrice.String(),
		Buckets:  buckets,
		Sorts:    sorts,
	}
}

// SearchView is the search form and its outcome notices
type SearchView struct {
	Query     models.SearchQuery
	Today     string
	Notice    string
	NoResults bool
}

// NewSearchView projects the search state. today is the form's minimum date.
func NewSearchView(st session.SearchState, today string) SearchView {
	return SearchView{
		Query:     st.Query,
		Today:     today,
		Notice:    st.Notice,
		NoResults: st.Status == session.SearchEmpty,
	}
}

// ClassCard is one cabin choice in the first wizard step
type ClassCard struct {
	Class       models.CabinClass
	Name        string
	Description string
	Image       string
	Price       string
	Selected    bool
}

// PassengerField is one name input, bound to a seat
type PassengerField struct {
	Index int
	Seat  string
	Name  string
}

// Number is the 1-based passenger number
func (p PassengerField) Number() int {
	return p.Index + 1
}

// WizardView is the booking dialog
type WizardView struct {
	ID           string
	Step         wizard.Step
	FlightNumber string
	Source       string
	Destination  string
	Date         string
	Notice       string

	Classes   []ClassCard
	ClassName string

	Rows          []seatmap.Row
	SelectedSeats string
	SeatCount     int
	Limit         int
	IsGroup       bool

	Passengers []PassengerField
	Total      string
}

// NewWizardView projects a wizard state
func NewWizardView(st wizard.State) WizardView {
	d := st.Draft
	v := WizardView{
		ID:           st.ID,
		Step:         st.Step,
		FlightNumber: d.FlightNumber,
		Source:       d.Source,
		Destination:  d.Destination,
		Date:         format.Date(d.Date),
		Notice:       st.Notice,
		ClassName:    string(d.Class),
		SeatCount:    d.SeatsBooked(),
		Limit:        d.SeatLimit(),
		IsGroup:      d.IsGroup,
		Total:        format.Rupees(d.Total()),
	}

	v.SelectedSeats = "-"
	if len(d.Seats) > 0 {
		v.SelectedSeats = strings.Join(d.Seats, ", ")
	}

	suffix := "dom"
	if wizard.IsInternational(d.Source, d.Destination) {
		suffix = "int"
	}
	for _, o := range models.CabinOptions() {
		v.Classes = append(v.Classes, ClassCard{
			Class:       o.Class,
			Name:        o.Name,
			Description: o.Description,
			Image:       fmt.Sprintf("%s_%s.png", o.ImagePrefix, suffix),
			Price:       format.Rupees(d.BasePrice * o.Multiplier),
			Selected:    o.Class == d.Class,
		})
	}

	v.Rows = seatmap.Build(st.Occupied, d.Seats)

	for i, seat := range d.Seats {
		name := ""
		if i < len(st.Passengers) {
			name = st.Passengers[i]
		}
		v.Passengers = append(v.Passengers, PassengerField{Index: i, Seat: seat, Name: name})
	}
	return v
}

// PageData is everything the search page shows
type PageData struct {
	Nav     nav.View
	Flash   string
	Search  SearchView
	Filters FilterView
	Results ResultsView
	Wizard  *WizardView
}

// BookingRow is one line of the booking history
type BookingRow struct {
	ID          int64
	Flight      string
	Route       string
	Date        string
	Departure   string
	Arrival     string
	Class       string
	Seats       int
	SeatNumbers string
	Passengers  string
	Total       string
	BookedOn    string
}

// NewBookingRow formats a booking record
func NewBookingRow(b models.BookingRecord) BookingRow {
	return BookingRow{
		ID:          b.BookingID,
		Flight:      b.FlightNumber,
		Route:       b.Source + " → " + b.Destination,
		Date:        format.Date(b.Date),
		Departure:   format.Time(b.DepartureTime),
		Arrival:     format.Time(b.ArrivalTime),
		Class:       orDefault(b.BookingClass, string(models.CabinEconomy)),
		Seats:       b.SeatsBooked,
		SeatNumbers: b.SeatNumbers,
		Passengers:  b.PassengerNames,
		Total:       format.Rupees(b.TotalPrice),
		BookedOn:    b.BookingDate,
	}
}

// BookingsPage is the booking history page
type BookingsPage struct {
	Nav      nav.View
	Flash    string
	Bookings []BookingRow
	Error    string
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
