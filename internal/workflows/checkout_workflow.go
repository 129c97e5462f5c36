package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

const (
	// CreateBookingActivity is the registered name of the booking submission activity
	CreateBookingActivity = "CreateBooking"
	// SubmitTimeout bounds one booking submission
	SubmitTimeout = 30 * time.Second
)

// CheckoutWorkflowInput is the input for the checkout workflow
type CheckoutWorkflowInput struct {
	Checkout     models.CheckoutInput `json:"checkout"`
	PaymentDelay time.Duration        `json:"paymentDelay"`
}

// CheckoutWorkflow waits out the simulated payment, then submits the booking once.
// It never fails: an activity error is reported as a transport failure in the result.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*models.CheckoutResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Checkout workflow started", "wizardId", input.Checkout.WizardID, "flightId", input.Checkout.Request.FlightID)

	stage := models.CheckoutStagePaying
	err := workflow.SetQueryHandler(ctx, models.QueryCheckoutState, func() (models.CheckoutStage, error) {
		return stage, nil
	})
	if err != nil {
		return nil, err
	}

	if input.PaymentDelay > 0 {
		if err := workflow.Sleep(ctx, input.PaymentDelay); err != nil {
			return nil, err
		}
	}
	stage = models.CheckoutStageSubmitting

	// No automatic retries: a second POST could book twice
	submitCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: SubmitTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var result models.CheckoutResult
	if err := workflow.ExecuteActivity(submitCtx, CreateBookingActivity, input.Checkout).Get(ctx, &result); err != nil {
		logger.Error("Booking submission failed", "error", err)
		result = models.CheckoutResult{Error: err.Error(), Transport: true}
	}
	stage = models.CheckoutStageDone

	logger.Info("Checkout workflow finished", "success", result.Success, "bookingId", result.BookingID)
	return &result, nil
}
