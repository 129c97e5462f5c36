package models

import "strings"

const (
	// SeatLimit is the per-booking seat cap outside group mode
	SeatLimit = 5
	// GroupSeatLimit is the cap once group booking is enabled
	GroupSeatLimit = 10
)

// BookingDraft is the working object of one booking attempt
type BookingDraft struct {
	FlightID     int64      `json:"flightId"`
	FlightNumber string     `json:"flightNumber"`
	Source       string     `json:"source"`
	Destination  string     `json:"destination"`
	Date         string     `json:"date"`
	BasePrice    float64    `json:"basePrice"`
	Class        CabinClass `json:"class,omitempty"`
	Seats        []string   `json:"seats"`
	Multiplier   float64    `json:"multiplier"`
	IsGroup      bool       `json:"isGroup"`
}

// NewBookingDraft starts a draft for the given flight
func NewBookingDraft(f FlightSearchResult) BookingDraft {
	return BookingDraft{
		FlightID:     f.ID,
		FlightNumber: f.FlightNumber,
		Source:       f.Source,
		Destination:  f.Destination,
		Date:         f.Date,
		BasePrice:    f.Price,
		Seats:        []string{},
		Multiplier:   1,
	}
}

// SeatsBooked mirrors the size of the seat selection
func (d BookingDraft) SeatsBooked() int {
	return len(d.Seats)
}

// SeatLimit returns the cap that applies to the draft right now
func (d BookingDraft) SeatLimit() int {
	if d.IsGroup {
		return GroupSeatLimit
	}
	return SeatLimit
}

// HasSeat reports whether label is part of the selection
func (d BookingDraft) HasSeat(label string) bool {
	for _, s := range d.Seats {
		if s == label {
			return true
		}
	}
	return false
}

// Total is basePrice x multiplier x seatsBooked
func (d BookingDraft) Total() float64 {
	return d.BasePrice * d.Multiplier * float64(d.SeatsBooked())
}

// Clone returns a copy that shares no slices with d
func (d BookingDraft) Clone() BookingDraft {
	c := d
	c.Seats = append([]string(nil), d.Seats...)
	if c.Seats == nil {
		c.Seats = []string{}
	}
	return c
}

// BookingRequest is the body of POST /api/bookings
type BookingRequest struct {
	FlightID       int64      `json:"flight_id"`
	SeatsBooked    int        `json:"seats_booked"`
	PassengerNames string     `json:"passenger_names"`
	BookingClass   CabinClass `json:"booking_class"`
	SeatNumbers    string     `json:"seat_numbers"`
}

// NewBookingRequest builds the submission payload from a draft and passenger names
func NewBookingRequest(d BookingDraft, names []string) BookingRequest {
	return BookingRequest{
		FlightID:       d.FlightID,
		SeatsBooked:    d.SeatsBooked(),
		PassengerNames: strings.Join(names, ", "),
		BookingClass:   d.Class,
		SeatNumbers:    strings.Join(d.Seats, ", "),
	}
}

// BookingResponse is the upstream answer to a booking submission
type BookingResponse struct {
	BookingID   int64   `json:"booking_id"`
	Message     string  `json:"message,omitempty"`
	TotalPrice  float64 `json:"total_price,omitempty"`
	SeatsBooked int     `json:"seats_booked,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// BookingRecord is one row of the user's booking history
type BookingRecord struct {
	BookingID      int64   `json:"booking_id"`
	FlightID       int64   `json:"flight_id"`
	FlightNumber   string  `json:"flight_number"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	SeatsBooked    int     `json:"seats_booked"`
	PassengerNames string  `json:"passenger_names"`
	TotalPrice     float64 `json:"total_price"`
	BookingClass   string  `json:"booking_class"`
	SeatNumbers    string  `json:"seat_numbers"`
	BookingDate    string  `json:"booking_date"`
}

// BookingHistoryResponse is the payload of GET /api/bookings/history
type BookingHistoryResponse struct {
	Bookings []BookingRecord `json:"bookings"`
}
