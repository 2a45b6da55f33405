package domain

import "strings"

var defaultDurations = map[Subject]int{
	SubjectQuantitative:        30,
	SubjectVerbal:              45,
	SubjectIntegratedReasoning: 20,
	SubjectAnalyticalWriting:   30,
	SubjectPracticeTest:        210,
	SubjectReview:              20,
}

// DefaultDuration is the suggested length in minutes for a subject, or 0 when
// the subject has none.
func DefaultDuration(s Subject) int {
	return defaultDurations[s]
}

type QuickPreset struct {
	Key      string
	Label    string
	Subject  Subject
	Duration int
}

var QuickPresets = []QuickPreset{
	{Key: "quant", Label: "Quant 30min", Subject: SubjectQuantitative, Duration: 30},
	{Key: "verbal", Label: "Verbal 45min", Subject: SubjectVerbal, Duration: 45},
	{Key: "ir", Label: "IR 20min", Subject: SubjectIntegratedReasoning, Duration: 20},
}

// LookupPreset matches a preset by key or label, ignoring case.
func LookupPreset(name string) (QuickPreset, bool) {
	for _, p := range QuickPresets {
		if strings.EqualFold(p.Key, name) || strings.EqualFold(p.Label, name) {
			return p, true
		}
	}
	return QuickPreset{}, false
}
