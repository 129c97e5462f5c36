package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/checkout"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

// Activities holds the checkout activities and their dependencies
type Activities struct {
	api apiclient.FlightAPI
}

// NewActivities creates a new Activities instance
func NewActivities(api apiclient.FlightAPI) *Activities {
	return &Activities{api: api}
}

// CreateBooking submits the booking upstream with the browser's credentials.
// Rejections and transport failures are returned in the result, not as an error.
func (a *Activities) CreateBooking(ctx context.Context, input models.CheckoutInput) (*models.CheckoutResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Submitting booking", "wizardId", input.WizardID, "flightId", input.Request.FlightID, "seats", input.Request.SeatNumbers)

	result := checkout.Submit(ctx, a.api, input)
	if !result.Success {
		logger.Warn("Booking not created", "error", result.Error, "transport", result.Transport)
	}
	return &result, nil
}
