package idx_test

import (
	"testing"
	"time"

	"github.com/flightbay/flightbay/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewProducesValidULIDs(t *testing.T) {
	a := idx.New()
	b := idx.New()

	require.False(t, a.IsZero())
	require.False(t, b.IsZero())
	require.NotEqual(t, a, b)

	_, err := idx.Parse(a.String())
	require.NoError(t, err)
}

func TestNewIsMonotonicWithinSameMillisecond(t *testing.T) {
	now := time.Now().UTC()

	a := idx.NewAt(now)
	b := idx.NewAt(now)

	require.Less(t, a.String(), b.String())
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-ulid", "0000"} {
		_, err := idx.Parse(in)
		require.ErrorIs(t, err, idx.ErrInvalid)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)

	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}

func TestTimeOfZeroID(t *testing.T) {
	require.True(t, idx.Zero.Time().IsZero())
}
