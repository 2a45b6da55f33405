package out

import (
	"context"

	sessiondomain "studytrack/internal/modules/session/domain"
)

// SessionStore is the session history as seen by import and export.
type SessionStore interface {
	Sessions(ctx context.Context) ([]sessiondomain.Session, error)
	ReplaceAll(ctx context.Context, sessions []sessiondomain.Session) error
	Sync(ctx context.Context) error
}
