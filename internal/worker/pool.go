package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ayushsinghal5500/ekbill-backend/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// badgeTTL caps how long a stale badge can survive if refresh jobs are lost.
const badgeTTL = 24 * time.Hour

// BadgeKey is the Redis key holding the unread-alert count for a business.
func BadgeKey(businessCode string) string {
	return "notif:badge:" + businessCode
}

// StartPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP (zero CPU when idle) and recomputes the
// per-business unread badge from the notifications table, so the cached count
// can never drift permanently from the source of truth.
func StartPool(ctx context.Context, rdb *redis.Client, notifRepo repository.NotificationRepository, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, notifRepo, i)
	}
	log.Info().Int("workers", numWorkers).Msg("alert worker pool started")
}

func runWorker(ctx context.Context, rdb *redis.Client, notifRepo repository.NotificationRepository, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("alert worker shutting down")
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlerts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processAlertJob(ctx, rdb, notifRepo, result[1])
		}
	}
}

func processAlertJob(ctx context.Context, rdb *redis.Client, notifRepo repository.NotificationRepository, raw string) {
	var job AlertJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal alert job")
		return
	}
	count, err := notifRepo.CountActive(ctx, job.BusinessCode)
	if err != nil {
		log.Error().Str("business_code", job.BusinessCode).Err(err).Msg("badge recount failed")
		return
	}
	if err := rdb.Set(ctx, BadgeKey(job.BusinessCode), count, badgeTTL).Err(); err != nil {
		log.Error().Str("business_code", job.BusinessCode).Err(err).Msg("badge cache write failed")
	}
}
