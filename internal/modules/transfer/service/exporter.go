package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	analyticsdomain "studytrack/internal/modules/analytics/domain"
	sessiondomain "studytrack/internal/modules/session/domain"
	"studytrack/internal/modules/transfer/domain"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/markdown"
)

var csvHeader = []string{"date", "subject", "duration", "topic", "score", "notes", "difficulty"}

func encodeJSON(doc domain.Document) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode export: %w", apperrors.ErrStorage, err)
	}
	return append(raw, '\n'), nil
}

func scoreText(s sessiondomain.Session) string {
	if s.Score == nil {
		return ""
	}
	return strconv.Itoa(*s.Score)
}

func encodeCSV(doc domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("%w: write csv header: %w", apperrors.ErrStorage, err)
	}
	for _, s := range doc.Sessions {
		row := []string{
			s.Date.UTC().Format(time.RFC3339),
			string(s.Subject),
			strconv.Itoa(s.Duration),
			s.Topic,
			scoreText(s),
			s.Notes,
			s.Difficulty,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("%w: write csv row: %w", apperrors.ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: flush csv: %w", apperrors.ErrStorage, err)
	}
	return buf.Bytes(), nil
}

func encodeMarkdown(doc domain.Document, streak analyticsdomain.Streak, loc *time.Location) ([]byte, error) {
	meta := domain.Summary{
		Title:         "GMAT study log",
		ExportDate:    doc.ExportDate.UTC().Format(time.RFC3339),
		Version:       doc.Version,
		TotalSessions: doc.Stats.TotalSessions,
		TotalHours:    analyticsdomain.RoundHours(doc.Stats.TotalMinutes),
		CurrentStreak: streak.Current,
		LongestStreak: streak.Longest,
		AverageScore:  averageScore(doc.Sessions),
	}
	rows := make([][]string, 0, len(doc.Sessions))
	for _, s := range doc.Sessions {
		rows = append(rows, []string{
			strconv.FormatInt(s.Timestamp, 10),
			s.Date.In(loc).Format(domain.MarkdownDateLayout),
			string(s.Subject),
			strconv.Itoa(s.Duration),
			s.Topic,
			scoreText(s),
			s.Notes,
		})
	}
	var body strings.Builder
	body.WriteString("# Study sessions\n\n")
	body.WriteString(markdown.Table(domain.MarkdownColumns, rows))
	out, err := markdown.RenderFrontmatter(meta, body.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	return []byte(out), nil
}

func averageScore(sessions []sessiondomain.Session) float64 {
	sum, n := 0, 0
	for _, s := range sessions {
		if s.Score != nil {
			sum += *s.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}
