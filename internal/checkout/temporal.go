package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/workflows"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

// TemporalProcessor runs each checkout as a CheckoutWorkflow and waits for its result
type TemporalProcessor struct {
	client    client.Client
	taskQueue string
	delay     time.Duration
	log       logger.Logger
}

// NewTemporalProcessor creates a TemporalProcessor
func NewTemporalProcessor(c client.Client, taskQueue string, delay time.Duration, log logger.Logger) *TemporalProcessor {
	return &TemporalProcessor{
		client:    c,
		taskQueue: taskQueue,
		delay:     delay,
		log:       log,
	}
}

func (p *TemporalProcessor) Run(ctx context.Context, input models.CheckoutInput) models.CheckoutResult {
	opts := client.StartWorkflowOptions{
		ID:        "checkout-" + uuid.NewString(),
		TaskQueue: p.taskQueue,
	}

	run, err := p.client.ExecuteWorkflow(ctx, opts, workflows.CheckoutWorkflow, workflows.CheckoutWorkflowInput{
		Checkout:     input,
		PaymentDelay: p.delay,
	})
	if err != nil {
		p.log.Error("failed to start checkout workflow", "wizard_id", input.WizardID, "error", err)
		return models.CheckoutResult{Error: err.Error(), Transport: true}
	}
	p.log.Info("checkout workflow started", "wizard_id", input.WizardID, "workflow_id", opts.ID)

	var result models.CheckoutResult
	if err := run.Get(ctx, &result); err != nil {
		p.log.Error("checkout workflow failed", "workflow_id", opts.ID, "error", err)
		return models.CheckoutResult{Error: err.Error(), Transport: true}
	}
	return result
}
