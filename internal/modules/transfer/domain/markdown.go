package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	sessiondomain "studytrack/internal/modules/session/domain"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/markdown"
)

// Summary is the YAML header of a Markdown export.
type Summary struct {
	Title         string  `yaml:"title"`
	ExportDate    string  `yaml:"export_date"`
	Version       string  `yaml:"version"`
	TotalSessions int     `yaml:"total_sessions"`
	TotalHours    float64 `yaml:"total_hours"`
	CurrentStreak int     `yaml:"current_streak"`
	LongestStreak int     `yaml:"longest_streak"`
	AverageScore  float64 `yaml:"average_score,omitempty"`
}

// MarkdownColumns are the session table headers of a Markdown export.
var MarkdownColumns = []string{"ID", "Date", "Subject", "Minutes", "Topic", "Score", "Notes"}

// MarkdownDateLayout is the table's date column, written in the exporter's zone.
const MarkdownDateLayout = "2006-01-02 15:04"

// IsMarkdown reports whether raw starts with a YAML header.
func IsMarkdown(raw []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(raw, "\ufeff \t\r\n"), []byte("---"))
}

// ParseMarkdown reads the session table of a Markdown export. Rows are
// converted like JSON entries; the ID column carries the session key.
func ParseMarkdown(raw []byte, nextID func() int64, loc *time.Location) ([]sessiondomain.Session, error) {
	content := strings.ReplaceAll(strings.TrimLeft(string(raw), "\ufeff \t\r\n"), "\r\n", "\n")
	var summary Summary
	body, err := markdown.SplitFrontmatter(content, &summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFormat, err)
	}
	if summary.Version == "" {
		return nil, fmt.Errorf("%w: markdown export has no version", apperrors.ErrFormat)
	}
	headers, rows := markdown.ParseTable(body)
	column := make(map[string]int, len(headers))
	for i, h := range headers {
		column[strings.ToLower(h)] = i
	}
	for _, required := range []string{"date", "subject", "minutes"} {
		if _, ok := column[required]; !ok {
			return nil, fmt.Errorf("%w: markdown export has no %s column", apperrors.ErrFormat, required)
		}
	}

	out := make([]sessiondomain.Session, 0, len(rows))
	for _, row := range rows {
		cell := func(name string) string {
			i, ok := column[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		minutes, err := strconv.ParseFloat(cell("minutes"), 64)
		if err != nil {
			continue
		}
		rec := sessiondomain.Record{
			Timestamp: []byte(strconv.Quote(cell("id"))),
			Date:      cell("date"),
			Subject:   cell("subject"),
			Duration:  minutes,
			Topic:     cell("topic"),
			Notes:     cell("notes"),
		}
		if score := cell("score"); score != "" {
			v, err := strconv.ParseFloat(score, 64)
			if err != nil {
				continue
			}
			rec.Score = &v
		}
		s, ok := rec.Normalize(sessiondomain.SourceImport, loc, func(sessiondomain.Session) int64 { return nextID() })
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
