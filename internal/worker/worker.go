// Package worker runs the asynq consumer side: the overdue sweep handler and
// the hourly schedule that feeds it.
package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"agencydesk/internal/queue"
	"agencydesk/internal/repository"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	payments  *repository.PaymentRepository
}

func New(redisAddr string, payments *repository.PaymentRepository) *Worker {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)
	return &Worker{server: server, scheduler: scheduler, payments: payments}
}

// Start registers handlers and the hourly sweep schedule, then blocks until
// ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskOverdueSweep, w.handleOverdueSweep)

	if _, err := w.scheduler.Register("@every 1h", asynq.NewTask(queue.TaskOverdueSweep, nil)); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		return err
	}
	if err := w.server.Start(mux); err != nil {
		w.scheduler.Shutdown()
		return err
	}
	log.Printf("[Worker] started, sweeping overdue payments hourly")

	<-ctx.Done()

	w.scheduler.Shutdown()
	w.server.Stop()
	w.server.Shutdown()
	log.Printf("[Worker] stopped")
	return nil
}

// handleOverdueSweep flips every due, invoiced or pending payment whose due
// date has passed to overdue. Received and canceled are terminal and never
// touched.
func (w *Worker) handleOverdueSweep(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now()
	if len(t.Payload()) > 0 {
		var payload queue.OverdueSweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}
		if !payload.Cutoff.IsZero() {
			cutoff = payload.Cutoff
		}
	}
	n, err := w.payments.MarkOverdue(ctx, cutoff)
	if err != nil {
		log.Printf("[Worker] overdue sweep failed: %v", err)
		return err
	}
	if n > 0 {
		log.Printf("[Worker] overdue sweep flipped %d payment(s)", n)
	}
	return nil
}
