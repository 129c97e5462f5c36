package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient/mocks"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/filter"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/metrics"
)

const creds = apiclient.Credentials("session=abc")

var query = models.SearchQuery{Source: "Delhi (DEL)", Destination: "Mumbai (BOM)", Date: "2026-10-20"}

func setup() (*Controller, *mocks.MockFlightAPI, *session.Session, *metrics.Metrics) {
	api := new(mocks.MockFlightAPI)
	m := metrics.NewNop()
	store := session.NewStore(time.Hour, 0, m, logger.NewNop())
	return NewController(api, m, logger.NewNop()), api, store.Create(), m
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   models.SearchQuery
		wantErr error
	}{
		{"complete", query, nil},
		{"blank source", models.SearchQuery{Source: "  ", Destination: "Goa", Date: "2026-10-20"}, ErrMissingFields},
		{"no destination", models.SearchQuery{Source: "Delhi", Date: "2026-10-20"}, ErrMissingFields},
		{"no date", models.SearchQuery{Source: "Delhi", Destination: "Goa"}, ErrMissingFields},
		{"bad date", models.SearchQuery{Source: "Delhi", Destination: "Goa", Date: "20/10/2026"}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.query)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSearch_MissingFieldsMakesNoRequest(t *testing.T) {
	c, api, sess, m := setup()

	st, err := c.Search(context.Background(), sess, creds, models.SearchQuery{Source: "Delhi"})

	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, NoticeMissingFields, st.Notice)
	assert.Equal(t, session.SearchIdle, st.Status)
	api.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("invalid")))
}

func TestSearch_MissingFieldsKeepsShownResults(t *testing.T) {
	c, api, sess, _ := setup()
	flights := []models.FlightSearchResult{{ID: 1, FlightNumber: "AI101", Price: 3000}}
	api.On("SearchFlights", mock.Anything, creds, query).Return(flights, nil).Once()
	_, err := c.Search(context.Background(), sess, creds, query)
	require.NoError(t, err)

	st, err := c.Search(context.Background(), sess, creds, models.SearchQuery{Source: "Delhi"})

	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, NoticeMissingFields, st.Notice)
	assert.Equal(t, session.SearchResults, st.Status)
	assert.Len(t, st.Results, 1)
	assert.True(t, st.ShowFilters())
	_, ok := sess.FindResult(1)
	assert.True(t, ok)
	api.AssertNumberOfCalls(t, "SearchFlights", 1)
}

func TestSearch_Results(t *testing.T) {
	c, api, sess, m := setup()
	flights := []models.FlightSearchResult{{ID: 1, FlightNumber: "AI101", Price: 3000}}
	api.On("SearchFlights", mock.Anything, creds, query).Return(flights, nil)
	sess.SetFilters(filter.State{MinPrice: filter.At(5000)})

	st, err := c.Search(context.Background(), sess, creds, query)

	require.NoError(t, err)
	assert.Equal(t, session.SearchResults, st.Status)
	assert.Equal(t, flights, st.Results)
	assert.True(t, st.ShowFilters())
	assert.Equal(t, filter.Default(), sess.Filters())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("results")))
	api.AssertExpectations(t)
}

func TestSearch_NoResults(t *testing.T) {
	tests := []struct {
		name    string
		flights []models.FlightSearchResult
		err     error
	}{
		{"empty list", []models.FlightSearchResult{}, nil},
		{"server rejected", nil, &apiclient.APIError{Status: 400, Message: "bad date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api, sess, _ := setup()
			api.On("SearchFlights", mock.Anything, creds, query).Return(tt.flights, tt.err)

			st, err := c.Search(context.Background(), sess, creds, query)

			require.NoError(t, err)
			assert.Equal(t, session.SearchEmpty, st.Status)
			assert.Empty(t, st.Results)
			assert.False(t, st.ShowFilters())
		})
	}
}

func TestSearch_TransportFailure(t *testing.T) {
	c, api, sess, m := setup()
	api.On("SearchFlights", mock.Anything, creds, query).Return(nil, errors.New("connection refused"))

	st, err := c.Search(context.Background(), sess, creds, query)

	require.NoError(t, err)
	assert.Equal(t, session.SearchFailed, st.Status)
	assert.Equal(t, NoticeFailed, st.Notice)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("error")))
}

func TestSearch_StaleResponseDiscarded(t *testing.T) {
	c, api, sess, m := setup()
	older := query
	newer := models.SearchQuery{Source: "Delhi (DEL)", Destination: "Goa (GOI)", Date: "2026-10-21"}

	release := make(chan struct{})
	started := make(chan struct{})
	api.On("SearchFlights", mock.Anything, creds, older).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]models.FlightSearchResult{{ID: 1}}, nil)
	api.On("SearchFlights", mock.Anything, creds, newer).
		Return([]models.FlightSearchResult{{ID: 2}}, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := c.Search(context.Background(), sess, creds, older)
		errc <- err
	}()
	<-started

	_, err := c.Search(context.Background(), sess, creds, newer)
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errc, ErrStale)
	st := sess.Search()
	require.Len(t, st.Results, 1)
	assert.Equal(t, int64(2), st.Results[0].ID)
	assert.Equal(t, "Goa (GOI)", st.Query.Destination)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleSearches))
}
