package service

import (
	"context"
	"time"

	"crypto_alert/internal/models"
)

// Store: где живёт cooldown-ledger между прогонами.
type Store interface {
	Load(ctx context.Context) (*models.Ledger, error)
	// Save пишет ledger целиком, предварительно выкинув записи старше retention.
	Save(ctx context.Context, l *models.Ledger) error
	Close() error
}

// retained обрезает ledger по retention и отдаёт оставшиеся записи.
func retained(l *models.Ledger, retention time.Duration, now time.Time) []models.CooldownRecord {
	if l == nil {
		return nil
	}
	if retention > 0 {
		l.Prune(now.Add(-retention))
	}
	return l.Records()
}
