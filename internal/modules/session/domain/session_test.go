package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrack/internal/modules/session/domain"
	apperrors "studytrack/internal/platform/errors"
)

func validSession() domain.Session {
	return domain.Session{
		Timestamp: 1700000000000,
		Date:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Subject:   domain.SubjectQuantitative,
		Duration:  30,
		Source:    domain.SourceManual,
	}
}

func TestSubjectAndSourceEnumerations(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.Subject("Integrated Reasoning").Valid())
	assert.False(t, domain.Subject("Math").Valid())
	assert.True(t, domain.Source("Legacy").Valid())
	assert.False(t, domain.Source("extension").Valid())
	assert.Len(t, domain.Subjects, 7)
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()
	require.NoError(t, validSession().Validate())

	cases := map[string]func(*domain.Session){
		"unknown subject":     func(s *domain.Session) { s.Subject = "Chemistry" },
		"duration too long":   func(s *domain.Session) { s.Duration = 700 },
		"duration zero":       func(s *domain.Session) { s.Duration = 0 },
		"missing date":        func(s *domain.Session) { s.Date = time.Time{} },
		"quant score too low": func(s *domain.Session) { s.Score = domain.IntPtr(5) },
		"bad source":          func(s *domain.Session) { s.Source = "" },
		"zero timestamp":      func(s *domain.Session) { s.Timestamp = 0 },
	}
	for name, mutate := range cases {
		s := validSession()
		mutate(&s)
		err := s.Validate()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), name)
	}
}

func TestScoreRangesDependOnSubject(t *testing.T) {
	t.Parallel()
	s := validSession()
	s.Subject = domain.SubjectAnalyticalWriting
	s.Score = domain.IntPtr(6)
	assert.NoError(t, s.Validate())
	s.Score = domain.IntPtr(7)
	assert.Error(t, s.Validate())

	s.Subject = domain.SubjectReview
	s.Score = domain.IntPtr(95)
	assert.NoError(t, s.Validate(), "subjects without a range accept any score")
}

func TestValidateMessageNamesTheViolation(t *testing.T) {
	t.Parallel()
	s := validSession()
	s.Duration = 700
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration must be between 1 and 600 minutes")
}

func TestDayUsesLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*3600)
	s := validSession()
	s.Date = time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	day := s.Day(loc)
	assert.Equal(t, 1, day.Day())
	assert.Equal(t, time.March, day.Month())
}
