// Package search validates the search form, calls the upstream search endpoint and applies
// the outcome to the session.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/format"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/metrics"
)

var (
	ErrMissingFields = errors.New("missing search fields")
	ErrInvalidDate   = errors.New("invalid travel date")
	// ErrStale means a newer search was issued while this one was in flight
	ErrStale = errors.New("search superseded")
)

const (
	NoticeMissingFields = "Please fill in all fields"
	NoticeInvalidDate   = "Please pick a valid travel date"
	NoticeFailed        = "An error occurred while searching for flights"
)

// Controller runs flight searches on behalf of a session
type Controller struct {
	api     apiclient.FlightAPI
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewController creates a Controller
func NewController(api apiclient.FlightAPI, m *metrics.Metrics, log logger.Logger) *Controller {
	return &Controller{
		api:     api,
		metrics: m,
		log:     log,
	}
}

// Validate trims q and checks that every field is present and the date is YYYY-MM-DD
func Validate(q models.SearchQuery) (models.SearchQuery, error) {
	q.Source = strings.TrimSpace(q.Source)
	q.Destination = strings.TrimSpace(q.Destination)
	q.Date = strings.TrimSpace(q.Date)

	if q.Source == "" || q.Destination == "" || q.Date == "" {
		return q, ErrMissingFields
	}
	if !format.IsDate(q.Date) {
		return q, ErrInvalidDate
	}
	return q, nil
}

// Search validates q, issues one upstream request and applies the outcome to sess.
//
// Validation failures return ErrMissingFields or ErrInvalidDate and no request is made.
// Empty and failed searches are outcomes, not errors: they come back in the returned
// state. ErrStale is returned when a newer search finished first; sess is left untouched.
func (c *Controller) Search(ctx context.Context, sess *session.Session, creds apiclient.Credentials, q models.SearchQuery) (session.SearchState, error) {
	q, err := Validate(q)
	if err != nil {
		notice := NoticeMissingFields
		if errors.Is(err, ErrInvalidDate) {
			notice = NoticeInvalidDate
		}
		sess.RejectSearch(q, notice)
		c.metrics.Searches.WithLabelValues("invalid").Inc()
		return sess.Search(), err
	}

	seq := sess.BeginSearch(q)
	start := time.Now()
	flights, err := c.api.SearchFlights(ctx, creds, q)
	c.metrics.SearchDuration.Observe(time.Since(start).Seconds())

	st := outcome(flights, err)
	if st.Status == session.SearchFailed {
		c.log.Error("flight search failed", "session_id", sess.ID(), "source", q.Source, "destination", q.Destination, "error", err)
	}

	if !sess.FinishSearch(seq, st) {
		c.metrics.StaleSearches.Inc()
		c.log.Debug("stale search response discarded", "session_id", sess.ID(), "seq", seq)
		return sess.Search(), ErrStale
	}

	c.metrics.Searches.WithLabelValues(outcomeLabel(st.Status)).Inc()
	return sess.Search(), nil
}

func outcome(flights []models.FlightSearchResult, err error) session.SearchState {
	if err != nil {
		// the server answered: treated like an empty result
		if _, ok := apiclient.IsAPIError(err); ok {
			return session.SearchState{Status: session.SearchEmpty}
		}
		return session.SearchState{Status: session.SearchFailed, Notice: NoticeFailed}
	}
	if len(flights) == 0 {
		return session.SearchState{Status: session.SearchEmpty}
	}
	return session.SearchState{Status: session.SearchResults, Results: flights}
}

func outcomeLabel(s session.SearchStatus) string {
	switch s {
	case session.SearchResults:
		return "results"
	case session.SearchEmpty:
		return "empty"
	default:
		return "error"
	}
}
