package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/flightbay/flightbay/internal/auth/domain"
)

type auditEventsRepo struct {
	db *sql.DB
}

func (r *auditEventsRepo) CreateAuditEvent(ctx context.Context, e domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, client_id, action, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?);`,
		e.ID, e.ClientID, e.Action, e.Outcome, e.Detail, e.CreatedAt.UTC(),
	)
	return err
}

func (r *auditEventsRepo) ListAuditEventsByClient(
	ctx context.Context,
	clientID string,
	limit int,
) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, action, outcome, detail, created_at
		FROM audit_events
		WHERE client_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?;`,
		clientID, limit,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Action, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func (r *auditEventsRepo) DeleteAuditEventsBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM audit_events WHERE created_at < ?;`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
