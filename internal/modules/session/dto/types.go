package dto

import "time"

// SessionRecord is the session shape exposed to other modules and surfaces.
type SessionRecord struct {
	Timestamp  int64     `json:"timestamp"`
	Date       time.Time `json:"date"`
	Subject    string    `json:"subject"`
	Duration   int       `json:"duration"`
	Topic      string    `json:"topic,omitempty"`
	Score      *int      `json:"score"`
	Notes      string    `json:"notes,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Source     string    `json:"source"`
}

// AddSessionInput carries user-entered fields. An empty Date means now and a
// zero Timestamp asks for a fresh one.
type AddSessionInput struct {
	Timestamp  int64
	Date       string
	Subject    string
	Duration   int
	Topic      string
	Score      *int
	Notes      string
	Difficulty string
	Tags       []string
	Source     string
}

type QuickPreset struct {
	Key      string
	Label    string
	Subject  string
	Duration int
}

type SyncOutput struct {
	Sessions    int      `json:"sessions"`
	Written     []string `json:"written"`
	Stale       []string `json:"stale"`
	Unavailable []string `json:"unavailable"`
	Changed     bool     `json:"changed"`
}

type ClearOutput struct {
	Cleared []string `json:"cleared"`
}
