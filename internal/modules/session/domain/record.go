package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is a loosely typed session entry as found in legacy stores and
// import documents. The key may be stored as "timestamp" or "id" and the
// source may be missing.
type Record struct {
	Timestamp  json.RawMessage `json:"timestamp"`
	ID         json.RawMessage `json:"id"`
	Date       string          `json:"date"`
	Subject    string          `json:"subject"`
	Duration   float64         `json:"duration"`
	Topic      string          `json:"topic"`
	Score      *float64        `json:"score"`
	Notes      string          `json:"notes"`
	Difficulty string          `json:"difficulty"`
	Tags       []string        `json:"tags"`
	Source     string          `json:"source"`
}

// Key returns the record's own key, or 0 when it carries none.
func (r Record) Key() int64 {
	return firstKey(r.Timestamp, r.ID)
}

// Normalize converts r into a valid session. A missing source becomes
// defaultSource and a missing key is taken from key, which sees the session
// with every other field filled in. It reports false when the record is not
// a usable session.
func (r Record) Normalize(defaultSource Source, loc *time.Location, key func(Session) int64) (Session, bool) {
	subject := strings.TrimSpace(r.Subject)
	if subject == "" || r.Duration <= 0 || strings.TrimSpace(r.Date) == "" {
		return Session{}, false
	}
	if r.Duration != math.Trunc(r.Duration) {
		return Session{}, false
	}
	date, err := ParseDate(strings.TrimSpace(r.Date), loc)
	if err != nil {
		return Session{}, false
	}
	s := Session{
		Timestamp:  r.Key(),
		Date:       date,
		Subject:    Subject(subject),
		Duration:   int(r.Duration),
		Topic:      r.Topic,
		Notes:      r.Notes,
		Difficulty: r.Difficulty,
		Tags:       r.Tags,
		Source:     Source(strings.TrimSpace(r.Source)),
	}
	if r.Score != nil {
		if *r.Score != math.Trunc(*r.Score) {
			return Session{}, false
		}
		s.Score = IntPtr(int(*r.Score))
	}
	if s.Source == "" {
		s.Source = defaultSource
	}
	if s.Timestamp <= 0 {
		s.Timestamp = key(s)
	}
	if s.Validate() != nil {
		return Session{}, false
	}
	return s, true
}

// NormalizeLegacy converts a legacy bare-array list. Entries without a key,
// or repeating one already used, get the first free millisecond at or after
// their date, so the same input always yields the same keys. It returns the
// valid sessions and the number of entries dropped.
func NormalizeLegacy(records []Record, loc *time.Location) ([]Session, int) {
	taken := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if k := r.Key(); k > 0 {
			taken[k] = struct{}{}
		}
	}
	claimed := make(map[int64]struct{}, len(records))
	out := make([]Session, 0, len(records))
	dropped := 0
	for _, r := range records {
		own := r.Key()
		s, ok := r.Normalize(SourceLegacy, loc, func(n Session) int64 {
			return freeKey(n.Date.UnixMilli(), taken)
		})
		if ok && own > 0 {
			if _, dup := claimed[own]; dup {
				s.Timestamp = freeKey(s.Date.UnixMilli(), taken)
			}
		}
		if !ok || s.Timestamp <= 0 {
			dropped++
			continue
		}
		claimed[s.Timestamp] = struct{}{}
		taken[s.Timestamp] = struct{}{}
		out = append(out, s)
	}
	return out, dropped
}

func freeKey(start int64, taken map[int64]struct{}) int64 {
	if start <= 0 {
		start = 1
	}
	for {
		if _, used := taken[start]; !used {
			taken[start] = struct{}{}
			return start
		}
		start++
	}
}

// firstKey reads the first usable integer key, accepting numbers and numeric strings.
func firstKey(candidates ...json.RawMessage) int64 {
	for _, raw := range candidates {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				continue
			}
			n = json.Number(strings.TrimSpace(s))
		}
		if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil && v > 0 {
			return v
		}
		if f, err := n.Float64(); err == nil && f > 0 && f == math.Trunc(f) {
			return int64(f)
		}
	}
	return 0
}
