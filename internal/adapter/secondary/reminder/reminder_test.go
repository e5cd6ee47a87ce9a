package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"checkin-manager/internal/domain"
)

func TestLogReminderWritesStructuredRecord(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewLogReminder(zap.New(core))

	entry := domain.Entry{ID: domain.NewEntryID(), Time: domain.NewWallClockTime(9, 30, 0)}
	at := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	require.NoError(t, r.Remind(context.Background(), domain.CheckIn{At: at, Entry: entry}))

	require.Equal(t, 1, logs.Len())
	record := logs.All()[0]
	assert.Equal(t, "check-in due", record.Message)
	assert.Equal(t, "reminder", record.LoggerName)
	fields := record.ContextMap()
	assert.Equal(t, "09:30:00", fields["time"])
	assert.Equal(t, "Mon", fields["weekday"])
	assert.Equal(t, entry.ID.String(), fields["id"])
}

func TestLogReminderHonorsCancelledContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewLogReminder(zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Remind(ctx, domain.CheckIn{At: time.Now()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, logs.Len())
}

func TestNoopReminder(t *testing.T) {
	var r domain.Reminder = NewNoopReminder()
	assert.NoError(t, r.Remind(context.Background(), domain.CheckIn{}))
}
