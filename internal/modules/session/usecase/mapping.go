package usecase

import (
	"studytrack/internal/modules/session/domain"
	sessiondto "studytrack/internal/modules/session/dto"
)

func toRecord(s domain.Session) sessiondto.SessionRecord {
	return sessiondto.SessionRecord{
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
	}
}

func toRecords(sessions []domain.Session) []sessiondto.SessionRecord {
	out := make([]sessiondto.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toRecord(s))
	}
	return out
}

func fromRecord(r sessiondto.SessionRecord) domain.Session {
	return domain.Session{
		Timestamp:  r.Timestamp,
		Date:       r.Date,
		Subject:    domain.Subject(r.Subject),
		Duration:   r.Duration,
		Topic:      r.Topic,
		Score:      r.Score,
		Notes:      r.Notes,
		Difficulty: r.Difficulty,
		Tags:       r.Tags,
		Source:     domain.Source(r.Source),
	}
}

func fromRecords(records []sessiondto.SessionRecord) []domain.Session {
	out := make([]domain.Session, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}
	return out
}
