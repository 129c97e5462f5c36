package mocks

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/filter"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/render"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/wizard"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

// MockPortalService is a mock implementation of PortalService
type MockPortalService struct {
	mock.Mock
}

func (m *MockPortalService) AcquireSession(token string) (*session.Session, string, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*session.Session), args.String(1), args.Error(2)
}

func (m *MockPortalService) HomePage(ctx context.Context, sess *session.Session, creds apiclient.Credentials) render.PageData {
	args := m.Called(ctx, sess, creds)
	return args.Get(0).(render.PageData)
}

func (m *MockPortalService) Search(ctx context.Context, sess *session.Session, creds apiclient.Credentials, q models.SearchQuery) error {
	args := m.Called(ctx, sess, creds, q)
	return args.Error(0)
}

func (m *MockPortalService) ApplyFilters(sess *session.Session, fs filter.State) {
	m.Called(sess, fs)
}

func (m *MockPortalService) ApplyFiltersDebounced(sess *session.Session, fs filter.State) {
	m.Called(sess, fs)
}

func (m *MockPortalService) ResetFilters(sess *session.Session) {
	m.Called(sess)
}

func (m *MockPortalService) OpenWizard(ctx context.Context, sess *session.Session, creds apiclient.Credentials, flightID int64) error {
	args := m.Called(ctx, sess, creds, flightID)
	return args.Error(0)
}

func (m *MockPortalService) Dispatch(sess *session.Session, creds apiclient.Credentials, ev wizard.Event) (wizard.State, wizard.Effect, error) {
	args := m.Called(sess, creds, ev)
	return args.Get(0).(wizard.State), args.Get(1).(wizard.Effect), args.Error(2)
}

func (m *MockPortalService) BookingsPage(ctx context.Context, sess *session.Session, creds apiclient.Credentials) (render.BookingsPage, error) {
	args := m.Called(ctx, sess, creds)
	return args.Get(0).(render.BookingsPage), args.Error(1)
}

func (m *MockPortalService) Logout(ctx context.Context, sess *session.Session, creds apiclient.Credentials) []*http.Cookie {
	args := m.Called(ctx, sess, creds)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*http.Cookie)
}

func (m *MockPortalService) Attach(conn *gorillaws.Conn, sess *session.Session) {
	m.Called(conn, sess)
}
