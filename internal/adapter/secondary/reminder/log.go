package reminder

import (
	"context"

	"go.uber.org/zap"

	"checkin-manager/internal/domain"
)

// LogReminder implements domain.Reminder by writing a structured log line.
// This is a secondary adapter.
type LogReminder struct {
	logger *zap.Logger
}

// NewLogReminder creates a reminder that reports check-ins to logger.
func NewLogReminder(logger *zap.Logger) *LogReminder {
	return &LogReminder{logger: logger.Named("reminder")}
}

// Remind emits one "check-in due" record.
func (r *LogReminder) Remind(ctx context.Context, checkIn domain.CheckIn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.logger.Info("check-in due",
		zap.Time("at", checkIn.At),
		zap.String("time", checkIn.Entry.Time.String()),
		zap.String("weekday", domain.WeekdayOf(checkIn.At).String()),
		zap.Stringer("id", checkIn.Entry.ID),
	)
	return nil
}
