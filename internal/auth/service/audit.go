package service

import (
	"context"
	"time"

	"github.com/flightbay/flightbay/internal/auth/domain"
	"github.com/flightbay/flightbay/internal/auth/store"
	"github.com/flightbay/flightbay/pkg/idx"
	"github.com/flightbay/flightbay/pkg/slogx"
)

// AuditService writes security-relevant events to the audit store. Recording
// is best-effort: a failed write is logged but never propagated, the grant
// outcome must not depend on audit availability.
type AuditService struct {
	Store store.Store
}

// Record appends a single audit event.
func (s *AuditService) Record(ctx context.Context, clientID, action, outcome, detail string) {
	event := domain.AuditEvent{
		ID:        idx.New().String(),
		ClientID:  clientID,
		Action:    action,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.AuditEvents().CreateAuditEvent(ctx, event); err != nil {
		slogx.FromContext(ctx).Error("failed to record audit event",
			"error", err,
			"client_id", clientID,
			"action", action,
		)
	}
}

// RecentForClient returns the most recent events for a client, newest first.
func (s *AuditService) RecentForClient(ctx context.Context, clientID string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Store.AuditEvents().ListAuditEventsByClient(ctx, clientID, limit)
}
