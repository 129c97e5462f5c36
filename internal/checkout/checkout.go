// Package checkout simulates payment and submits the booking upstream.
package checkout

import (
	"context"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

// DefaultPaymentDelay is the simulated payment time
const DefaultPaymentDelay = 2 * time.Second

// Processor runs one checkout to completion. Run blocks and always returns a result;
// failures are reported in it rather than as an error.
type Processor interface {
	Run(ctx context.Context, input models.CheckoutInput) models.CheckoutResult
}

// Submit posts the booking and maps the answer. A rejection carries the server message;
// anything else that fails is a transport failure.
func Submit(ctx context.Context, api apiclient.FlightAPI, input models.CheckoutInput) models.CheckoutResult {
	resp, err := api.CreateBooking(ctx, apiclient.Credentials(input.Credentials), input.Request)
	if err != nil {
		if apiErr, ok := apiclient.IsAPIError(err); ok {
			return models.CheckoutResult{Error: apiErr.Message}
		}
		return models.CheckoutResult{Error: err.Error(), Transport: true}
	}
	return models.CheckoutResult{Success: true, BookingID: resp.BookingID}
}

// InlineProcessor waits out the payment delay in-process and then submits
type InlineProcessor struct {
	api   apiclient.FlightAPI
	delay time.Duration
	log   logger.Logger
}

// NewInlineProcessor creates an InlineProcessor
func NewInlineProcessor(api apiclient.FlightAPI, delay time.Duration, log logger.Logger) *InlineProcessor {
	return &InlineProcessor{api: api, delay: delay, log: log}
}

func (p *InlineProcessor) Run(ctx context.Context, input models.CheckoutInput) models.CheckoutResult {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			p.log.Warn("checkout abandoned during payment", "wizard_id", input.WizardID, "error", ctx.Err())
			return models.CheckoutResult{Error: ctx.Err().Error(), Transport: true}
		case <-timer.C:
		}
	}

	result := Submit(ctx, p.api, input)
	p.log.Info("checkout finished",
		"wizard_id", input.WizardID,
		"flight_id", input.Request.FlightID,
		"success", result.Success,
		"booking_id", result.BookingID,
	)
	return result
}
