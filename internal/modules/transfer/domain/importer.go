package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	sessiondomain "studytrack/internal/modules/session/domain"
	apperrors "studytrack/internal/platform/errors"
)

// ParseDocument extracts candidate sessions from an import document. It fails
// with a format error when the document has no sessions array. Entries that
// are not usable sessions are skipped; nextID supplies a key for entries
// without one. loc resolves dates that carry no zone.
func ParseDocument(raw []byte, nextID func() int64, loc *time.Location) ([]sessiondomain.Session, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: document is not a JSON object: %v", apperrors.ErrFormat, err)
	}
	rawSessions, ok := doc["sessions"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(rawSessions), []byte("[")) {
		return nil, fmt.Errorf("%w: document has no sessions array", apperrors.ErrFormat)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawSessions, &entries); err != nil {
		return nil, fmt.Errorf("%w: sessions array: %v", apperrors.ErrFormat, err)
	}

	out := make([]sessiondomain.Session, 0, len(entries))
	for _, entry := range entries {
		var r sessiondomain.Record
		if err := json.Unmarshal(entry, &r); err != nil {
			continue
		}
		s, ok := r.Normalize(sessiondomain.SourceImport, loc, func(sessiondomain.Session) int64 { return nextID() })
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// SelectNew keeps candidates whose timestamp is not already in existing,
// dropping repeats within the candidates as well.
func SelectNew(candidates, existing []sessiondomain.Session) []sessiondomain.Session {
	seen := sessiondomain.Timestamps(existing)
	out := make([]sessiondomain.Session, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Timestamp]; dup {
			continue
		}
		seen[c.Timestamp] = struct{}{}
		out = append(out, c)
	}
	return out
}
