package domain

import (
	"fmt"
	"strings"
	"time"

	analyticsdomain "studytrack/internal/modules/analytics/domain"
	sessiondomain "studytrack/internal/modules/session/domain"
	apperrors "studytrack/internal/platform/errors"
)

const Version = "1.0"

// Document is the portable export of the whole history.
type Document struct {
	Sessions   []sessiondomain.Session `json:"sessions"`
	Stats      analyticsdomain.Totals  `json:"stats"`
	ExportDate time.Time               `json:"exportDate"`
	Version    string                  `json:"version"`
}

type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, value)
	}
}

func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// FileName builds the default export name, e.g. gmat-study-data-2026-03-12.json.
func FileName(prefix string, format Format, exportedAt time.Time) string {
	return prefix + "-" + exportedAt.Format("2006-01-02") + format.Extension()
}
