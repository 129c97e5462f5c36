package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient/mocks"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/workflows"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

var input = models.CheckoutInput{
	WizardID:    "wiz-1",
	SessionID:   "sess-1",
	Credentials: "session=abc",
	Request: models.BookingRequest{
		FlightID:       4,
		SeatsBooked:    2,
		PassengerNames: "Asha, Ravi",
		BookingClass:   models.CabinBusiness,
		SeatNumbers:    "3C, 1A",
	},
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name string
		resp *models.BookingResponse
		err  error
		want models.CheckoutResult
	}{
		{
			name: "created",
			resp: &models.BookingResponse{BookingID: 12},
			want: models.CheckoutResult{Success: true, BookingID: 12},
		},
		{
			name: "rejected",
			err:  &apiclient.APIError{Status: 400, Message: "Not enough seats available. Only 1 seats remaining"},
			want: models.CheckoutResult{Error: "Not enough seats available. Only 1 seats remaining"},
		},
		{
			name: "wrapped rejection",
			err:  fmt.Errorf("create booking: %w", &apiclient.APIError{Status: 401, Message: "Please login to book flights"}),
			want: models.CheckoutResult{Error: "Please login to book flights"},
		},
		{
			name: "transport",
			err:  errors.New("connection refused"),
			want: models.CheckoutResult{Error: "connection refused", Transport: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mocks.MockFlightAPI)
			if tt.resp != nil {
				api.On("CreateBooking", mock.Anything, apiclient.Credentials("session=abc"), input.Request).Return(tt.resp, nil)
			} else {
				api.On("CreateBooking", mock.Anything, apiclient.Credentials("session=abc"), input.Request).Return(nil, tt.err)
			}

			assert.Equal(t, tt.want, Submit(context.Background(), api, input))
		})
	}
}

func TestInlineProcessor_WaitsThenSubmits(t *testing.T) {
	api := new(mocks.MockFlightAPI)
	api.On("CreateBooking", mock.Anything, mock.Anything, input.Request).
		Return(&models.BookingResponse{BookingID: 3}, nil).Once()
	p := NewInlineProcessor(api, 20*time.Millisecond, logger.NewNop())

	start := time.Now()
	result := p.Run(context.Background(), input)

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.True(t, result.Success)
	assert.Equal(t, int64(3), result.BookingID)
	api.AssertExpectations(t)
}

func TestInlineProcessor_ContextDoneBeforePayment(t *testing.T) {
	api := new(mocks.MockFlightAPI)
	p := NewInlineProcessor(api, time.Minute, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := p.Run(ctx, input)

	assert.False(t, result.Success)
	assert.True(t, result.Transport)
	api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemporalProcessor_ReturnsWorkflowResult(t *testing.T) {
	c := &temporalmocks.Client{}
	run := &temporalmocks.WorkflowRun{}

	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.TaskQueue == "portal-checkout-queue" && strings.HasPrefix(o.ID, "checkout-")
	}), mock.Anything, workflows.CheckoutWorkflowInput{Checkout: input, PaymentDelay: 2 * time.Second}).
		Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*models.CheckoutResult) = models.CheckoutResult{Success: true, BookingID: 88}
		}).
		Return(nil)

	p := NewTemporalProcessor(c, "portal-checkout-queue", 2*time.Second, logger.NewNop())
	result := p.Run(context.Background(), input)

	assert.True(t, result.Success)
	assert.Equal(t, int64(88), result.BookingID)
	c.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalProcessor_StartFailure(t *testing.T) {
	c := &temporalmocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("temporal unavailable"))

	result := NewTemporalProcessor(c, "q", 0, logger.NewNop()).Run(context.Background(), input)

	assert.False(t, result.Success)
	assert.True(t, result.Transport)
}

func TestTemporalProcessor_WorkflowError(t *testing.T) {
	c := &temporalmocks.Client{}
	run := &temporalmocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Return(errors.New("workflow timed out"))

	result := NewTemporalProcessor(c, "q", 0, logger.NewNop()).Run(context.Background(), input)

	assert.False(t, result.Success)
	assert.True(t, result.Transport)
	assert.Equal(t, "workflow timed out", result.Error)
}
