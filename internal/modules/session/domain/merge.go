package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// Snapshot is the persisted form of one backend's session list.
type Snapshot struct {
	Sessions  []Session
	WrittenAt time.Time
	// Dropped counts legacy entries that could not be read as sessions.
	Dropped int
}

// SortByDateDesc orders sessions newest first; equal dates fall back to the
// larger timestamp so the order is total.
func SortByDateDesc(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.After(sessions[j].Date)
		}
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
}

// Merge unions two snapshots keyed by timestamp. When both sides hold a
// different record for the same timestamp, the side written most recently
// wins; a tie goes to a. The result is sorted with SortByDateDesc.
func Merge(a, b Snapshot) []Session {
	preferred, other := a, b
	if b.WrittenAt.After(a.WrittenAt) {
		preferred, other = b, a
	}
	byKey := make(map[int64]Session, len(a.Sessions)+len(b.Sessions))
	for _, s := range other.Sessions {
		byKey[s.Timestamp] = s
	}
	for _, s := range preferred.Sessions {
		byKey[s.Timestamp] = s
	}
	out := make([]Session, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, s)
	}
	SortByDateDesc(out)
	return out
}

// Equal reports whether two session lists hold the same records in the same order.
func Equal(a, b []Session) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameRecord(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SameRecord compares two sessions by their encoded form.
func SameRecord(a, b Session) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}

// Timestamps indexes sessions by dedup key.
func Timestamps(sessions []Session) map[int64]struct{} {
	out := make(map[int64]struct{}, len(sessions))
	for _, s := range sessions {
		out[s.Timestamp] = struct{}{}
	}
	return out
}
