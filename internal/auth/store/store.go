package store

import (
	"context"
	"errors"
	"time"

	"github.com/flightbay/flightbay/internal/auth/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. The client registry is file-backed and immutable, so the
// only persisted state is the audit trail.
type Store interface {
	AuditEvents() AuditEvents

	ApplyMigrations() error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type AuditEvents interface {
	// CreateAuditEvent appends a single event (id is provided by app via ULID).
	CreateAuditEvent(ctx context.Context, e domain.AuditEvent) error

	// ListAuditEventsByClient returns the most recent events for a client,
	// newest first, up to limit.
	ListAuditEventsByClient(ctx context.Context, clientID string, limit int) ([]domain.AuditEvent, error)

	// DeleteAuditEventsBefore prunes events older than cutoff and returns the
	// number of rows removed. Housekeeping calls this on a timer.
	DeleteAuditEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
