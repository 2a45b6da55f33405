package service

import (
	"fmt"

	analyticsdomain "studytrack/internal/modules/analytics/domain"
	sessiondomain "studytrack/internal/modules/session/domain"
	"studytrack/internal/modules/transfer/domain"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/id"
)

type Export struct {
	FileName string
	Format   domain.Format
	Content  []byte
	Sessions int
}

type ImportResult struct {
	Merged   []sessiondomain.Session
	Imported int
}

type TransferService struct {
	clock  clock.Clock
	idGen  id.Generator
	prefix string
}

func NewTransferService(clk clock.Clock, idGen id.Generator, prefix string) *TransferService {
	return &TransferService{clock: clk, idGen: idGen, prefix: prefix}
}

// Export renders the full history in the requested format.
func (s *TransferService) Export(sessions []sessiondomain.Session, format domain.Format) (Export, error) {
	now := s.clock.Now()
	ordered := append([]sessiondomain.Session{}, sessions...)
	sessiondomain.SortByDateDesc(ordered)
	doc := domain.Document{
		Sessions:   ordered,
		Stats:      analyticsdomain.ComputeTotals(ordered),
		ExportDate: now.UTC(),
		Version:    domain.Version,
	}

	var (
		content []byte
		err     error
	)
	switch format {
	case domain.FormatJSON:
		content, err = encodeJSON(doc)
	case domain.FormatCSV:
		content, err = encodeCSV(doc)
	case domain.FormatMarkdown:
		content, err = encodeMarkdown(doc, analyticsdomain.ComputeStreak(ordered, now), now.Location())
	default:
		err = fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
	if err != nil {
		return Export{}, err
	}
	return Export{
		FileName: domain.FileName(s.prefix, format, now),
		Format:   format,
		Content:  content,
		Sessions: len(ordered),
	}, nil
}

// Import merges the new sessions of raw into existing. raw is a JSON export
// or a Markdown export. It fails with a format error when the document is
// malformed or holds no valid session. When every valid session is already
// present, Imported is zero.
func (s *TransferService) Import(raw []byte, existing []sessiondomain.Session) (ImportResult, error) {
	parse := domain.ParseDocument
	if domain.IsMarkdown(raw) {
		parse = domain.ParseMarkdown
	}
	candidates, err := parse(raw, s.idGen.Next, s.clock.Now().Location())
	if err != nil {
		return ImportResult{}, err
	}
	if len(candidates) == 0 {
		return ImportResult{}, fmt.Errorf("%w: no valid sessions found", apperrors.ErrFormat)
	}
	fresh := domain.SelectNew(candidates, existing)
	merged := make([]sessiondomain.Session, 0, len(existing)+len(fresh))
	merged = append(merged, existing...)
	merged = append(merged, fresh...)
	sessiondomain.SortByDateDesc(merged)
	return ImportResult{Merged: merged, Imported: len(fresh)}, nil
}
