package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/flightbay/flightbay/internal/auth/domain"
	"github.com/flightbay/flightbay/internal/auth/store/drivers/sqlite"
	"github.com/flightbay/flightbay/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func makeEvent(clientID, outcome string, at time.Time) domain.AuditEvent {
	return domain.AuditEvent{
		ID:        idx.New().String(),
		ClientID:  clientID,
		Action:    domain.AuditActionTokenIssued,
		Outcome:   outcome,
		CreatedAt: at,
	}
}

func TestAuditEventsRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.AuditEvents()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateAuditEvent(ctx, makeEvent("demo-client", domain.AuditOutcomeSuccess, now.Add(-2*time.Minute))))
	require.NoError(t, repo.CreateAuditEvent(ctx, makeEvent("demo-client", domain.AuditOutcomeInvalidClient, now.Add(-time.Minute))))
	require.NoError(t, repo.CreateAuditEvent(ctx, makeEvent("other-client", domain.AuditOutcomeSuccess, now)))

	events, err := repo.ListAuditEventsByClient(ctx, "demo-client", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	require.Equal(t, domain.AuditOutcomeInvalidClient, events[0].Outcome)
	require.Equal(t, domain.AuditOutcomeSuccess, events[1].Outcome)

	events, err = repo.ListAuditEventsByClient(ctx, "demo-client", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestDeleteAuditEventsBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.AuditEvents()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateAuditEvent(ctx, makeEvent("demo-client", domain.AuditOutcomeSuccess, now.Add(-48*time.Hour))))
	require.NoError(t, repo.CreateAuditEvent(ctx, makeEvent("demo-client", domain.AuditOutcomeSuccess, now)))

	pruned, err := repo.DeleteAuditEventsBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, pruned)

	events, err := repo.ListAuditEventsByClient(ctx, "demo-client", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
