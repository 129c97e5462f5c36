package mocks

import (
	"context"
	"net/http"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/stretchr/testify/mock"
)

// MockFlightAPI is a mock implementation of apiclient.FlightAPI
type MockFlightAPI struct {
	mock.Mock
}

func (m *MockFlightAPI) SearchFlights(ctx context.Context, creds apiclient.Credentials, q models.SearchQuery) ([]models.FlightSearchResult, error) {
	args := m.Called(ctx, creds, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightSearchResult), args.Error(1)
}

func (m *MockFlightAPI) CheckAuth(ctx context.Context, creds apiclient.Credentials) (*models.AuthStatus, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthStatus), args.Error(1)
}

func (m *MockFlightAPI) CreateBooking(ctx context.Context, creds apiclient.Credentials, req models.BookingRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

func (m *MockFlightAPI) BookingHistory(ctx context.Context, creds apiclient.Credentials) ([]models.BookingRecord, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingRecord), args.Error(1)
}

func (m *MockFlightAPI) Logout(ctx context.Context, creds apiclient.Credentials) ([]*http.Cookie, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*http.Cookie), args.Error(1)
}
