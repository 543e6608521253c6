package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueAlerts = "jobs:alerts"

// AlertJob asks the pool to refresh the unread-alert badge for one business.
type AlertJob struct {
	BusinessCode string `json:"business_code"`
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. Enqueueing is best-effort fire-and-forget: services call it
// after their transaction commits and ignore the error.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

// EnqueueAlertRefresh schedules a badge recount for the business.
func (d *Dispatcher) EnqueueAlertRefresh(ctx context.Context, businessCode string) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	data, err := json.Marshal(AlertJob{BusinessCode: businessCode})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueAlerts, data).Err()
}
