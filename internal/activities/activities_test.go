package activities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient/mocks"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/workflows"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

type ActivitiesTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	api *mocks.MockFlightAPI
	env *testsuite.TestActivityEnvironment
}

func (s *ActivitiesTestSuite) SetupTest() {
	s.api = new(mocks.MockFlightAPI)
	s.env = s.NewTestActivityEnvironment()
	s.env.RegisterActivityWithOptions(NewActivities(s.api).CreateBooking, activity.RegisterOptions{
		Name: workflows.CreateBookingActivity,
	})
}

func TestActivitiesTestSuite(t *testing.T) {
	suite.Run(t, new(ActivitiesTestSuite))
}

var input = models.CheckoutInput{
	WizardID:    "wiz-1",
	Credentials: "session=abc",
	Request: models.BookingRequest{
		FlightID:       7,
		SeatsBooked:    1,
		PassengerNames: "Asha",
		BookingClass:   models.CabinFirst,
		SeatNumbers:    "1A",
	},
}

func (s *ActivitiesTestSuite) run() models.CheckoutResult {
	val, err := s.env.ExecuteActivity(workflows.CreateBookingActivity, input)
	s.Require().NoError(err)

	var result models.CheckoutResult
	s.Require().NoError(val.Get(&result))
	return result
}

func (s *ActivitiesTestSuite) TestCreateBooking_Success() {
	s.api.On("CreateBooking", mock.Anything, apiclient.Credentials("session=abc"), input.Request).
		Return(&models.BookingResponse{BookingID: 77, Message: "Booking successful"}, nil)

	result := s.run()

	s.True(result.Success)
	s.Equal(int64(77), result.BookingID)
	s.api.AssertExpectations(s.T())
}

func (s *ActivitiesTestSuite) TestCreateBooking_Rejected() {
	s.api.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &apiclient.APIError{Status: 400, Message: "Flight not found"})

	result := s.run()

	s.False(result.Success)
	s.False(result.Transport)
	s.Equal("Flight not found", result.Error)
}

func (s *ActivitiesTestSuite) TestCreateBooking_TransportFailure() {
	s.api.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	result := s.run()

	s.False(result.Success)
	s.True(result.Transport)
}
