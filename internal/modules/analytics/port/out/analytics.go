package out

import (
	"context"

	sessiondomain "studytrack/internal/modules/session/domain"
)

// SessionSource supplies the reconciled session history.
type SessionSource interface {
	Sessions(ctx context.Context) ([]sessiondomain.Session, error)
}

// StreakCache holds the last computed streak for badge display. It is never
// read back into any computation.
type StreakCache interface {
	SaveStreak(ctx context.Context, current int) error
}

type Goals struct {
	DailyMinutes  int
	WeeklyMinutes int
	BadgeEnabled  bool
}

type GoalSource interface {
	Goals(ctx context.Context) (Goals, error)
}
