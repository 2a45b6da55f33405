package out

import (
	"context"

	sessiondomain "studytrack/internal/modules/session/domain"
	sessiondto "studytrack/internal/modules/session/dto"
	sessionin "studytrack/internal/modules/session/port/in"
	transferout "studytrack/internal/modules/transfer/port/out"
)

// SessionUsecaseStore adapts the session use cases to the transfer store port.
type SessionUsecaseStore struct {
	sessions sessionin.Usecase
}

func NewSessionUsecaseStore(sessions sessionin.Usecase) transferout.SessionStore {
	return &SessionUsecaseStore{sessions: sessions}
}

func (a *SessionUsecaseStore) Sessions(ctx context.Context) ([]sessiondomain.Session, error) {
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

func (a *SessionUsecaseStore) ReplaceAll(ctx context.Context, sessions []sessiondomain.Session) error {
	records := make([]sessiondto.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, sessiondto.SessionRecord{
			Timestamp:  s.Timestamp,
			Date:       s.Date,
			Subject:    string(s.Subject),
			Duration:   s.Duration,
			Topic:      s.Topic,
			Score:      s.Score,
			Notes:      s.Notes,
			Difficulty: s.Difficulty,
			Tags:       s.Tags,
			Source:     string(s.Source),
		})
	}
	return a.sessions.ReplaceAll(ctx, records)
}

func (a *SessionUsecaseStore) Sync(ctx context.Context) error {
	_, err := a.sessions.Sync(ctx)
	return err
}
