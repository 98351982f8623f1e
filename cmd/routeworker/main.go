package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/agroshare/internal/adapters/nats"
	"github.com/samirrijal/agroshare/internal/adapters/openroute"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/core/usecases"
	"github.com/samirrijal/agroshare/internal/pkg/config"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
	"github.com/samirrijal/agroshare/internal/workflows"
)

func main() {
	cfg, err := config.Load("agroshare-routeworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	provider := openroute.NewClient(cfg.Routing.ORSAPIKey,
		openroute.WithBaseURL(cfg.Routing.BaseURL),
		openroute.WithTimeout(time.Duration(cfg.Routing.TimeoutSeconds)*time.Second),
	)

	// Retry outcomes go back on the bus so watching clients see them.
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats publisher unavailable, retry outcomes will not be published", "error", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities. Retry events are marked so the
	// subscription below never schedules a retry of a retry.
	w.RegisterWorkflow(workflows.RouteResolutionWorkflow)
	w.RegisterActivity(&workflows.RouteActivities{
		Routes: usecases.NewRetryRouteService(provider, publisher),
	})

	if err := w.Start(); err != nil {
		log.Fatalf("worker: %v", err)
	}
	defer w.Stop()

	// Transport failures published by the API are retried in the background.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "routeworker")
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeRouteEvents(ctx, func(ctx context.Context, event *ports.RouteEvent) error {
		id, input, ok := workflows.RetryRequest(event)
		if !ok {
			return nil
		}
		run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
			ID:        id,
			TaskQueue: cfg.Temporal.TaskQueue,
		}, workflows.RouteResolutionWorkflow, input)
		if err != nil {
			var started *serviceerror.WorkflowExecutionAlreadyStarted
			if errors.As(err, &started) {
				return nil
			}
			slog.Error("start route retry", "workflow_id", id, "error", err)
			return err
		}
		slog.Info("route retry scheduled", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "listing_id", input.ListingID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe route events: %v", err)
	}

	slog.Info("route worker started", "task_queue", cfg.Temporal.TaskQueue)
	<-worker.InterruptCh()
	slog.Info("route worker stopping")
}
