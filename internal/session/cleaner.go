package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartExpiryCleaner removes expired sessions with interval
func (m *Manager) StartExpiryCleaner(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := m.sweep(time.Now())
				if removed > 0 {
					log.Info("cleaned expired sessions", zap.Int("removed", removed))
				}
			}
		}
	}()
}

// sweep deletes every session that expired before now and reports how many
// were removed.
func (m *Manager) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, rec := range m.sessions {
		if now.After(rec.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
