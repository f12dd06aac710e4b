package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
)

// startPurger removes expired sessions every interval until shutdown.
func startPurger(lc *lifecycle.Coordinator, sys System, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}

	lc.OnShutdown(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-lc.Context().Done():
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(lc.Context(), interval)
				n, err := sys.Purge(ctx)
				cancel()
				if err != nil {
					logger.Warn("session purge failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("expired sessions purged", "count", n)
				}
			}
		}
	})
}
