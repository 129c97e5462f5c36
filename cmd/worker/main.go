package main

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/activities"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/config"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/workflows"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	log.Info("Connecting to Temporal", "host", cfg.TemporalHost)
	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to connect to Temporal", "error", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(workflows.CheckoutWorkflow)

	// Create and register activities
	acts := activities.NewActivities(apiclient.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, log))
	w.RegisterActivityWithOptions(acts.CreateBooking, activity.RegisterOptions{Name: workflows.CreateBookingActivity})

	log.Info("Starting checkout worker", "taskQueue", cfg.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal("Worker failed", "error", err)
	}
}
