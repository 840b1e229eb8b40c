package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Status
		wantErr bool
	}{
		{name: "uppercase", raw: "PENDING", want: StatusPending},
		{name: "lowercase", raw: "confirmed", want: StatusConfirmed},
		{name: "mixed case", raw: "Interested", want: StatusInterested},
		{name: "whitespace", raw: "  COMPLETED ", want: StatusCompleted},
		{name: "double l cancelled", raw: "CANCELLED", want: StatusCancelled},
		{name: "single l canceled", raw: "canceled", want: StatusCancelled},
		{name: "unknown", raw: "ARCHIVED", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatusClosedEnum(t *testing.T) {
	// Every parseable value must be one of the five enum members.
	for _, raw := range []string{"interested", "pending", "confirmed", "cancelled", "canceled", "completed"} {
		got, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Contains(t, AllStatuses, got)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusInterested, StatusPending},
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, tr.from.CanTransition(tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to Status }{
		{StatusCompleted, StatusConfirmed},
		{StatusCompleted, StatusPending},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusInterested, StatusConfirmed},
		{StatusInterested, StatusCompleted},
		{StatusPending, StatusCompleted},
		{StatusPending, StatusInterested},
		{StatusConfirmed, StatusPending},
	}
	for _, tr := range denied {
		assert.False(t, tr.from.CanTransition(tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusInterested.Terminal())
}

func TestComputeStats(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, BookingStats{}, ComputeStats(nil))
	})

	t.Run("one counter per status", func(t *testing.T) {
		list := []Booking{
			{ID: "b1", Status: StatusPending},
			{ID: "b2", Status: StatusConfirmed},
		}

		stats := ComputeStats(list)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.Pending)
		assert.Equal(t, 1, stats.Confirmed)
		assert.Equal(t, 0, stats.Completed)
		assert.Equal(t, 0, stats.Cancelled)
		assert.Equal(t, 0, stats.Interested)
	})

	t.Run("all statuses", func(t *testing.T) {
		var list []Booking
		for i, status := range AllStatuses {
			list = append(list, Booking{ID: string(rune('a' + i)), Status: status})
			list = append(list, Booking{ID: string(rune('A' + i)), Status: status})
		}

		stats := ComputeStats(list)
		assert.Equal(t, 10, stats.Total)
		assert.Equal(t, 2, stats.Interested)
		assert.Equal(t, 2, stats.Pending)
		assert.Equal(t, 2, stats.Confirmed)
		assert.Equal(t, 2, stats.Cancelled)
		assert.Equal(t, 2, stats.Completed)
	})
}

func TestSessionValid(t *testing.T) {
	assert.False(t, (*Session)(nil).Valid())
	assert.False(t, (&Session{}).Valid())
	assert.False(t, (&Session{Token: "tok"}).Valid())
	assert.False(t, (&Session{ActorID: "v1"}).Valid())
	assert.True(t, (&Session{Token: "tok", ActorID: "v1"}).Valid())

	expired := &Session{Token: "tok", ActorID: "v1", ExpiresAt: time.Now().Add(-time.Minute)}
	assert.False(t, expired.Valid())

	live := &Session{Token: "tok", ActorID: "v1", ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, live.Valid())
}

func TestWishlist(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusInterested}).Wishlist())
	assert.False(t, (&Booking{Status: StatusPending}).Wishlist())
}
