// Package queue wraps the asynq client for background payment jobs. The only
// recurring job today is the overdue sweep, which flips unpaid payments past
// their due date to overdue.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskOverdueSweep = "payments:overdue_sweep"
)

type OverdueSweepPayload struct {
	// Cutoff is the due-date boundary; zero means "now at enqueue time".
	Cutoff time.Time `json:"cutoff"`
}

type Queue struct {
	client *asynq.Client
}

func New(redisAddr string) *Queue {
	return &Queue{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueOverdueSweep queues one sweep run. Safe to call repeatedly; the
// sweep itself is idempotent.
func (q *Queue) EnqueueOverdueSweep(cutoff time.Time) error {
	payload, err := json.Marshal(OverdueSweepPayload{Cutoff: cutoff})
	if err != nil {
		return fmt.Errorf("marshal sweep payload: %w", err)
	}
	_, err = q.client.Enqueue(asynq.NewTask(TaskOverdueSweep, payload),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue overdue sweep: %w", err)
	}
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}
