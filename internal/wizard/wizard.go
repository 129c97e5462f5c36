// Package wizard is the booking flow: class, seats, passengers, then payment.
//
// The flow is a pure transition function. Next takes the current State and one Event and
// returns the following State plus an Effect the caller must carry out (start the checkout,
// finish the flow). Next never performs I/O and never mutates the State it was given.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/seatmap"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

// Step is the wizard screen currently shown
type Step string

const (
	StepClass     Step = "class"
	StepSeat      Step = "seat"
	StepPassenger Step = "passenger"
	// StepSuccess shows payment in progress. It is left again on a failed booking.
	StepSuccess Step = "success"
)

var (
	ErrWrongStep             = errors.New("action not available at this step")
	ErrUnknownClass          = errors.New("unknown cabin class")
	ErrInvalidSeat           = errors.New("invalid seat")
	ErrSeatLimit             = errors.New("seat limit reached")
	ErrNoSeats               = errors.New("no seats selected")
	ErrMissingPassengerNames = errors.New("missing passenger names")
	ErrCheckoutInProgress    = errors.New("payment is being processed")
)

// LimitError is returned when a seat would exceed the active cap
type LimitError struct {
	Limit int
	Group bool
}

func (e *LimitError) Error() string {
	msg := fmt.Sprintf("You can only select up to %d seats.", e.Limit)
	if !e.Group {
		msg += fmt.Sprintf(" Enable Group Booking for up to %d.", models.GroupSeatLimit)
	}
	return msg
}

// Is makes errors.Is(err, ErrSeatLimit) hold
func (e *LimitError) Is(target error) bool {
	return target == ErrSeatLimit
}

const (
	msgBookingFailed   = "Booking failed"
	msgTransportFailed = "Error processing booking"
	// CompletedRedirect is where the browser goes once tickets are confirmed
	CompletedRedirect = "/bookings"
)

// State is one live booking attempt
type State struct {
	ID         string
	Step       Step
	Draft      models.BookingDraft
	Occupied   map[string]bool
	Passengers []string
	Notice     string
}

// Open starts a wizard for flight. occupied is resolved once here so that seat
// occupancy stays stable for the whole attempt.
func Open(id string, flight models.FlightSearchResult, occupied map[string]bool) State {
	occ := make(map[string]bool, len(occupied))
	for k, v := range occupied {
		if v {
			occ[k] = true
		}
	}
	return State{
		ID:       id,
		Step:     StepClass,
		Draft:    models.NewBookingDraft(flight),
		Occupied: occ,
	}
}

// SeatTaken reports whether label is unavailable to this attempt
func (s State) SeatTaken(label string) bool {
	return s.Occupied[label] && !s.Draft.HasSeat(label)
}

func (s State) clone() State {
	c := s
	c.Draft = s.Draft.Clone()
	c.Passengers = append([]string(nil), s.Passengers...)
	return c
}

// Event is something the user or the checkout did
type Event interface {
	event()
}

// SelectClass picks the cabin and advances to seat selection
type SelectClass struct{ Class models.CabinClass }

// ToggleSeat selects or releases one seat
type ToggleSeat struct{ Label string }

// SetGroup turns group booking on or off
type SetGroup struct{ Enabled bool }

// ConfirmSeats advances to passenger details
type ConfirmSeats struct{}

// Back returns to the previous step, keeping all selections
type Back struct{}

// SubmitPassengers carries one name per seat, in seat order
type SubmitPassengers struct{ Names []string }

// BookingSucceeded is the checkout confirming the booking
type BookingSucceeded struct{ BookingID int64 }

// BookingFailed is the checkout reporting a rejected or failed booking
type BookingFailed struct {
	Message   string
	Transport bool
}

// Dismiss closes the wizard and drops the draft
type Dismiss struct{}

func (SelectClass) event()      {}
func (ToggleSeat) event()       {}
func (SetGroup) event()         {}
func (ConfirmSeats) event()     {}
func (Back) event()             {}
func (SubmitPassengers) event() {}
func (BookingSucceeded) event() {}
func (BookingFailed) event()    {}
func (Dismiss) event()          {}

// EffectKind says what the caller has to do after a transition
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectCheckout starts payment simulation and booking submission with Effect.Request
	EffectCheckout
	// EffectComplete ends the flow: drop the draft, show Effect.Message, go to Effect.Redirect
	EffectComplete
	// EffectDismiss ends the flow without a booking
	EffectDismiss
)

// Effect is the side effect requested by a transition
type Effect struct {
	Kind      EffectKind
	Request   models.BookingRequest
	BookingID int64
	Message   string
	Redirect  string
}

// Next applies ev to s. On error the returned State is s with Notice set to the error text.
func Next(s State, ev Event) (State, Effect, error) {
	next := s.clone()
	next.Notice = ""

	var (
		effect Effect
		err    error
	)
	switch e := ev.(type) {
	case SelectClass:
		err = selectClass(&next, e)
	case ToggleSeat:
		err = toggleSeat(&next, e)
	case SetGroup:
		err = setGroup(&next, e)
	case ConfirmSeats:
		err = confirmSeats(&next)
	case Back:
		err = back(&next)
	case SubmitPassengers:
		effect, err = submitPassengers(&next, e)
	case BookingSucceeded:
		effect, err = bookingSucceeded(&next, e)
	case BookingFailed:
		err = bookingFailed(&next, e)
	case Dismiss:
		if s.Step == StepSuccess {
			err = ErrCheckoutInProgress
		} else {
			effect = Effect{Kind: EffectDismiss}
		}
	default:
		err = fmt.Errorf("unsupported event %T", ev)
	}

	if err != nil {
		failed := s.clone()
		failed.Notice = UserMessage(err)
		// names typed before a rejected submit are kept for the re-render
		if sp, ok := ev.(SubmitPassengers); ok && s.Step == StepPassenger {
			failed.Passengers = fitNames(sp.Names, s.Draft.SeatsBooked())
		}
		return failed, Effect{}, err
	}
	return next, effect, nil
}

func selectClass(s *State, e SelectClass) error {
	if s.Step != StepClass {
		return ErrWrongStep
	}
	opt, ok := models.LookupCabin(e.Class)
	if !ok {
		return ErrUnknownClass
	}
	s.Draft.Class = opt.Class
	s.Draft.Multiplier = opt.Multiplier
	s.Step = StepSeat
	return nil
}

func toggleSeat(s *State, e ToggleSeat) error {
	if s.Step != StepSeat {
		return ErrWrongStep
	}
	label, err := seatmap.Normalize(e.Label)
	if err != nil {
		return ErrInvalidSeat
	}
	if s.SeatTaken(label) {
		return nil
	}

	for i, seat := range s.Draft.Seats {
		if seat == label {
			s.Draft.Seats = append(s.Draft.Seats[:i], s.Draft.Seats[i+1:]...)
			return nil
		}
	}

	limit := s.Draft.SeatLimit()
	if len(s.Draft.Seats) >= limit {
		return &LimitError{Limit: limit, Group: s.Draft.IsGroup}
	}
	s.Draft.Seats = append(s.Draft.Seats, label)
	return nil
}

// setGroup clears the whole selection, not just the overflow, when group mode is turned
// off with more seats than the normal cap.
func setGroup(s *State, e SetGroup) error {
	if s.Step != StepSeat {
		return ErrWrongStep
	}
	s.Draft.IsGroup = e.Enabled
	if !e.Enabled && len(s.Draft.Seats) > models.SeatLimit {
		s.Draft.Seats = []string{}
		s.Passengers = nil
	}
	return nil
}

func confirmSeats(s *State) error {
	if s.Step != StepSeat {
		return ErrWrongStep
	}
	if len(s.Draft.Seats) == 0 {
		return ErrNoSeats
	}
	s.Passengers = fitNames(s.Passengers, len(s.Draft.Seats))
	s.Step = StepPassenger
	return nil
}

func back(s *State) error {
	switch s.Step {
	case StepSeat:
		s.Step = StepClass
	case StepPassenger:
		s.Step = StepSeat
	default:
		return ErrWrongStep
	}
	return nil
}

func submitPassengers(s *State, e SubmitPassengers) (Effect, error) {
	if s.Step != StepPassenger {
		return Effect{}, ErrWrongStep
	}
	if len(e.Names) != len(s.Draft.Seats) {
		return Effect{}, ErrMissingPassengerNames
	}
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return Effect{}, ErrMissingPassengerNames
		}
	}

	s.Passengers = names
	s.Step = StepSuccess
	return Effect{
		Kind:    EffectCheckout,
		Request: models.NewBookingRequest(s.Draft, names),
	}, nil
}

func bookingSucceeded(s *State, e BookingSucceeded) (Effect, error) {
	if s.Step != StepSuccess {
		return Effect{}, ErrWrongStep
	}
	return Effect{
		Kind:      EffectComplete,
		BookingID: e.BookingID,
		Message:   fmt.Sprintf("Payment Successful! Tickets Confirmed.\nBooking ID: #%d", e.BookingID),
		Redirect:  CompletedRedirect,
	}, nil
}

// bookingFailed is the one way out of StepSuccess that keeps the flow alive. Class, seats and
// names are left untouched.
func bookingFailed(s *State, e BookingFailed) error {
	if s.Step != StepSuccess {
		return ErrWrongStep
	}
	msg := e.Message
	switch {
	case e.Transport:
		msg = msgTransportFailed
	case msg == "":
		msg = msgBookingFailed
	}
	s.Step = StepPassenger
	s.Notice = msg
	return nil
}

// UserMessage turns a transition error into the notice shown in the wizard
func UserMessage(err error) string {
	var limitErr *LimitError
	switch {
	case errors.As(err, &limitErr):
		return limitErr.Error()
	case errors.Is(err, ErrMissingPassengerNames):
		return "Please enter all passenger names"
	case errors.Is(err, ErrNoSeats):
		return "Please select at least one seat"
	case errors.Is(err, ErrInvalidSeat):
		return "That seat does not exist on this aircraft"
	case errors.Is(err, ErrUnknownClass):
		return "Please choose Economy, Business or First"
	case errors.Is(err, ErrCheckoutInProgress):
		return "Your payment is being processed"
	default:
		return "That action is not available right now"
	}
}

// fitNames returns exactly n names, keeping what was typed for existing positions
func fitNames(names []string, n int) []string {
	out := make([]string, n)
	copy(out, names)
	return out
}

// IsInternational reports whether either end of the route is an international airport
func IsInternational(source, destination string) bool {
	for _, city := range []string{"Dubai", "London", "New York", "Singapore", "Bangkok"} {
		if strings.Contains(source, city) || strings.Contains(destination, city) {
			return true
		}
	}
	return false
}
