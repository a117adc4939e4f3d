package activity

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=logger_mocks_test.go -package=activity

type logStore interface {
	GetOrCreate(ctx context.Context, userID int, date time.Time, actionType string) (*Log, bool, error)
	ListSince(ctx context.Context, userID int, since time.Time) ([]Log, error)
}

// Logger records daily user actions. Logging is best effort: a failed write
// must never break the operation that triggered it, so Log only reports
// failures to the server log.
type Logger struct {
	store    logStore
	location *time.Location
	nowFunc  func() time.Time
}

func NewLogger(store logStore, location *time.Location) *Logger {
	return &Logger{
		store:    store,
		location: location,
		nowFunc:  time.Now,
	}
}

// Log records actionType for the user on today's date, in the configured
// timezone. Duplicate actions on the same day are a no-op.
func (al *Logger) Log(ctx context.Context, userID int, actionType string) {
	if _, _, err := al.LogToday(ctx, userID, actionType); err != nil {
		log.Errorf("log activity [user %d, %s]: %s", userID, actionType, err)
	}
}

// LogToday is the error-returning variant, for callers that care whether the
// entry already existed.
func (al *Logger) LogToday(ctx context.Context, userID int, actionType string) (*Log, bool, error) {
	today := al.nowFunc().In(al.location)
	return al.store.GetOrCreate(ctx, userID, today, actionType)
}

// Recent returns the user's activity logs of the last given number of days,
// newest first.
func (al *Logger) Recent(ctx context.Context, userID, days int) ([]Log, error) {
	since := al.nowFunc().In(al.location).AddDate(0, 0, -days)
	return al.store.ListSince(ctx, userID, since)
}
