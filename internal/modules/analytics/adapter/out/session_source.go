package out

import (
	"context"

	analyticsout "studytrack/internal/modules/analytics/port/out"
	sessiondomain "studytrack/internal/modules/session/domain"
	sessionin "studytrack/internal/modules/session/port/in"
)

// SessionUsecaseSource reads the reconciled history through the session use cases.
type SessionUsecaseSource struct {
	sessions sessionin.Usecase
}

func NewSessionUsecaseSource(sessions sessionin.Usecase) analyticsout.SessionSource {
	return &SessionUsecaseSource{sessions: sessions}
}

func (a *SessionUsecaseSource) Sessions(ctx context.Context) ([]sessiondomain.Session, error) {
	records, err := a.sessions.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondomain.Session, 0, len(records))
	for _, r := range records {
		out = append(out, sessiondomain.Session{
			Timestamp:  r.Timestamp,
			Date:       r.Date,
			Subject:    sessiondomain.Subject(r.Subject),
			Duration:   r.Duration,
			Topic:      r.Topic,
			Score:      r.Score,
			Notes:      r.Notes,
			Difficulty: r.Difficulty,
			Tags:       r.Tags,
			Source:     sessiondomain.Source(r.Source),
		})
	}
	return out, nil
}
