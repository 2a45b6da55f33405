package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	sessiondomain "studytrack/internal/modules/session/domain"
)

type InsightType string

const (
	TypePositive InsightType = "positive"
	TypeWarning  InsightType = "warning"
	TypeInfo     InsightType = "info"
	TypeGoal     InsightType = "goal"
)

type Category string

const (
	CategoryActivity    Category = "activity"
	CategoryBalance     Category = "balance"
	CategoryDuration    Category = "duration"
	CategoryConsistency Category = "consistency"
	CategoryPerformance Category = "performance"
	CategoryFrequency   Category = "frequency"
	CategoryTesting     Category = "testing"
	CategoryOnboarding  Category = "onboarding"
)

// Insight is a rule-generated observation or recommendation. It is rebuilt
// on every request and never stored.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Category    Category    `json:"category"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Action      string      `json:"action,omitempty"`
}

var insightNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://studytrack.local/insights"))

func newInsight(typ InsightType, category Category, title, description, action string) Insight {
	return Insight{
		ID:          uuid.NewSHA1(insightNamespace, []byte(string(typ)+"/"+title)).String(),
		Type:        typ,
		Category:    category,
		Title:       title,
		Description: description,
		Action:      action,
	}
}

const week = 7 * 24 * time.Hour

// Insights evaluates the observation rules in a fixed order. The result only
// depends on sessions and now.
func Insights(sessions []sessiondomain.Session, now time.Time) []Insight {
	out := []Insight{}
	if len(sessions) == 0 {
		return out
	}
	rules := []func([]sessiondomain.Session, time.Time) (Insight, bool){
		activityTrend,
		subjectBalance,
		sessionLength,
		streakInsight,
		scoreTrend,
	}
	for _, rule := range rules {
		if insight, ok := rule(sessions, now); ok {
			out = append(out, insight)
		}
	}
	return out
}

func activityTrend(sessions []sessiondomain.Session, now time.Time) (Insight, bool) {
	oneWeekAgo := now.Add(-week)
	twoWeeksAgo := now.Add(-2 * week)
	recent, previous := 0, 0
	for _, s := range sessions {
		switch {
		case !s.Date.Before(oneWeekAgo):
			recent++
		case !s.Date.Before(twoWeeksAgo):
			previous++
		}
	}
	switch {
	case recent > previous:
		return newInsight(TypePositive, CategoryActivity, "Increased Activity",
			fmt.Sprintf("You've studied %d times in the last 7 days, up from %d the week before. Keep the momentum going.", recent, previous), ""), true
	case recent < previous && previous > 0:
		return newInsight(TypeWarning, CategoryActivity, "Decreased Activity",
			fmt.Sprintf("Your sessions dropped from %d to %d over the last 7 days. A short session today gets you back on track.", previous, recent), ""), true
	default:
		return Insight{}, false
	}
}

func subjectCounts(sessions []sessiondomain.Session) map[sessiondomain.Subject]int {
	counts := map[sessiondomain.Subject]int{}
	for _, s := range sessions {
		counts[s.Subject]++
	}
	return counts
}

func subjectBalance(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	counts := subjectCounts(sessions)
	if len(counts) < 2 {
		return Insight{}, false
	}
	maxCount, minCount := 0, math.MaxInt
	for _, n := range counts {
		maxCount = max(maxCount, n)
		minCount = min(minCount, n)
	}
	if maxCount <= 2*minCount {
		return Insight{}, false
	}
	var dominant sessiondomain.Subject
	var neglected []string
	for _, subject := range sessiondomain.Subjects {
		n, ok := counts[subject]
		if !ok {
			continue
		}
		if n == maxCount && dominant == "" {
			dominant = subject
		}
		if n == minCount {
			neglected = append(neglected, string(subject))
		}
	}
	return newInsight(TypeWarning, CategoryBalance, "Unbalanced Subject Focus",
		fmt.Sprintf("You're focusing heavily on %s but may need more practice with %s.", dominant, strings.Join(neglected, ", ")), ""), true
}

func sessionLength(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	avg := AverageDuration(sessions)
	switch {
	case avg > 60:
		return newInsight(TypePositive, CategoryDuration, "Great Session Length",
			fmt.Sprintf("Your average session lasts %.0f minutes, long enough for deep work.", math.Round(avg)), ""), true
	case avg < 30:
		return newInsight(TypeInfo, CategoryDuration, "Consider Longer Sessions",
			fmt.Sprintf("Your average session lasts %.0f minutes. Sessions of 45 to 60 minutes tend to improve retention.", math.Round(avg)), ""), true
	default:
		return Insight{}, false
	}
}

func streakInsight(sessions []sessiondomain.Session, now time.Time) (Insight, bool) {
	streak := CurrentStreak(sessions, now)
	switch {
	case streak >= 7:
		return newInsight(TypePositive, CategoryConsistency, "Amazing Consistency",
			fmt.Sprintf("You've kept a %d-day study streak. That consistency pays off on test day.", streak), ""), true
	case streak >= 3:
		return newInsight(TypePositive, CategoryConsistency, "Building Habits",
			fmt.Sprintf("You're on a %d-day streak. Keep it up to build a steady routine.", streak), ""), true
	default:
		return Insight{}, false
	}
}

// scoredNewestFirst returns the scored sessions ordered by date, newest first.
func scoredNewestFirst(sessions []sessiondomain.Session) []sessiondomain.Session {
	scored := make([]sessiondomain.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Scored() {
			scored = append(scored, s)
		}
	}
	sessiondomain.SortByDateDesc(scored)
	return scored
}

func meanScore(sessions []sessiondomain.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0
	for _, s := range sessions {
		sum += *s.Score
	}
	return float64(sum) / float64(len(sessions))
}

func scoreTrend(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	scored := scoredNewestFirst(sessions)
	if len(scored) < 3 {
		return Insight{}, false
	}
	recent := scored[:3]
	older := scored[3:min(len(scored), 6)]
	if len(older) == 0 {
		return Insight{}, false
	}
	recentAvg, olderAvg := meanScore(recent), meanScore(older)
	if recentAvg <= olderAvg+5 {
		return Insight{}, false
	}
	return newInsight(TypePositive, CategoryPerformance, "Improving Performance",
		fmt.Sprintf("Your recent average score (%.0f) is higher than before (%.0f). Great progress!", math.Round(recentAvg), math.Round(olderAvg)), ""), true
}
