package domain

import (
	"fmt"
	"time"
)

type Subject string

const (
	SubjectQuantitative        Subject = "Quantitative"
	SubjectVerbal              Subject = "Verbal"
	SubjectIntegratedReasoning Subject = "Integrated Reasoning"
	SubjectAnalyticalWriting   Subject = "Analytical Writing"
	SubjectPracticeTest        Subject = "Full Practice Test"
	SubjectReview              Subject = "Review"
	SubjectErrorLog            Subject = "Error Log"
)

// Subjects lists the closed subject enumeration in canonical order.
// Anything that reports per-subject results iterates in this order.
var Subjects = []Subject{
	SubjectQuantitative,
	SubjectVerbal,
	SubjectIntegratedReasoning,
	SubjectAnalyticalWriting,
	SubjectPracticeTest,
	SubjectReview,
	SubjectErrorLog,
}

func (s Subject) Valid() bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

type ScoreRange struct {
	Min int
	Max int
}

var scoreRanges = map[Subject]ScoreRange{
	SubjectQuantitative:        {Min: 6, Max: 51},
	SubjectVerbal:              {Min: 6, Max: 51},
	SubjectIntegratedReasoning: {Min: 1, Max: 8},
	SubjectAnalyticalWriting:   {Min: 0, Max: 6},
}

// ScoreRangeFor reports the valid score range for a subject. Subjects without a
// range accept any score.
func ScoreRangeFor(s Subject) (ScoreRange, bool) {
	r, ok := scoreRanges[s]
	return r, ok
}

type Source string

const (
	SourceExtension Source = "Extension"
	SourcePWA       Source = "PWA"
	SourceImport    Source = "Import"
	SourceManual    Source = "Manual"
	SourceLegacy    Source = "Legacy"
)

func (s Source) Valid() bool {
	switch s {
	case SourceExtension, SourcePWA, SourceImport, SourceManual, SourceLegacy:
		return true
	default:
		return false
	}
}

const (
	MinDuration = 1
	MaxDuration = 600
)

type Session struct {
	Timestamp  int64     `json:"timestamp" validate:"gt=0"`
	Date       time.Time `json:"date" validate:"required"`
	Subject    Subject   `json:"subject" validate:"subject"`
	Duration   int       `json:"duration" validate:"min=1,max=600"`
	Topic      string    `json:"topic,omitempty"`
	Score      *int      `json:"score"`
	Notes      string    `json:"notes,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Source     Source    `json:"source" validate:"source"`
}

// Scored reports whether a score was recorded.
func (s Session) Scored() bool {
	return s.Score != nil
}

// Day projects the session date onto a calendar day in loc.
func (s Session) Day(loc *time.Location) time.Time {
	d := s.Date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func (s Session) String() string {
	return fmt.Sprintf("%d %s %s %dmin", s.Timestamp, s.Date.Format(time.RFC3339), s.Subject, s.Duration)
}

func IntPtr(v int) *int {
	return &v
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts an RFC 3339 instant or a local date/time in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for i, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, loc)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}
