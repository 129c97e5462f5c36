package models

// FlightSearchResult represents one flight returned by the upstream search endpoint
type FlightSearchResult struct {
	ID             int64   `json:"flight_id"`
	FlightNumber   string  `json:"flight_number"`
	Airline        string  `json:"airline"`
	Aircraft       string  `json:"aircraft"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Price          float64 `json:"price"`
	TotalSeats     int     `json:"total_seats,omitempty"`
	AvailableSeats int     `json:"available_seats"`
}

// SearchQuery holds the three search form fields
type SearchQuery struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// SearchResponse is the upstream search payload
type SearchResponse struct {
	Flights []FlightSearchResult `json:"flights"`
	Error   string               `json:"error,omitempty"`
}

// CabinClass is the cabin chosen in the first wizard step
type CabinClass string

const (
	CabinEconomy  CabinClass = "Economy"
	CabinBusiness CabinClass = "Business"
	CabinFirst    CabinClass = "First"
)

// CabinOption describes how a cabin class is offered to the user
type CabinOption struct {
	Class       CabinClass
	Name        string
	Multiplier  float64
	ImagePrefix string
	Description string
}

var cabinOptions = []CabinOption{
	{Class: CabinEconomy, Name: "Economy Class", Multiplier: 1, ImagePrefix: "cabin_eco", Description: "Comfortable seating with great service."},
	{Class: CabinBusiness, Name: "Business Class", Multiplier: 2.5, ImagePrefix: "cabin_bus", Description: "Premium seating, extra legroom, and priority."},
	{Class: CabinFirst, Name: "First Class", Multiplier: 4, ImagePrefix: "cabin_first", Description: "Absolute luxury, privacy, and fine dining."},
}

// CabinOptions returns the cabin classes in display order
func CabinOptions() []CabinOption {
	out := make([]CabinOption, len(cabinOptions))
	copy(out, cabinOptions)
	return out
}

// LookupCabin returns the option for a class name
func LookupCabin(class CabinClass) (CabinOption, bool) {
	for _, o := range cabinOptions {
		if o.Class == class {
			return o, true
		}
	}
	return CabinOption{}, false
}
