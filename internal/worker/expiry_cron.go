package worker

// expiry_cron.go
// Background goroutine that periodically scans active products for upcoming
// expiry dates and opens/resolves EXPIRY_ALERT notifications through the same
// idempotent upsert primitive the low-stock path uses.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiryScanner is implemented by the notification service. Declared here so
// the worker package never imports internal/service.
type ExpiryScanner interface {
	RunExpiryScan(ctx context.Context) error
}

// StartExpiryCron launches a goroutine that runs one scan immediately and
// then ticks at the configured interval (daily in production, shorter in
// development). It respects the context for graceful shutdown.
func StartExpiryCron(ctx context.Context, scanner ExpiryScanner, interval time.Duration) {
	go func() {
		log.Info().Dur("interval", interval).Msg("expiry_cron: started")

		if err := scanner.RunExpiryScan(ctx); err != nil {
			log.Error().Err(err).Msg("expiry_cron: scan failed")
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiry_cron: shutting down")
				return
			case <-ticker.C:
				if err := scanner.RunExpiryScan(ctx); err != nil {
					log.Error().Err(err).Msg("expiry_cron: scan failed")
				}
			}
		}
	}()
}
