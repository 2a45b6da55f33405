package domain

import (
	"math"
	"strings"
	"time"

	sessiondomain "studytrack/internal/modules/session/domain"
)

// MaxRecommendations caps the recommendation list.
const MaxRecommendations = 4

var coreSubjects = []sessiondomain.Subject{sessiondomain.SubjectQuantitative, sessiondomain.SubjectVerbal}

// Recommendations evaluates the recommendation rules in order and keeps the
// first MaxRecommendations produced.
func Recommendations(sessions []sessiondomain.Session, now time.Time) []Insight {
	if len(sessions) == 0 {
		return []Insight{newInsight(TypeGoal, CategoryOnboarding, "Start Your Journey",
			"Begin with a diagnostic test to understand your baseline and find the areas that need work.",
			"Take a full-length practice test or a diagnostic quiz")}
	}
	rules := []func([]sessiondomain.Session, time.Time) (Insight, bool){
		coreSubjectNeglect,
		studyFrequency,
		optimizeLength,
		practiceTestCadence,
		scoreLevel,
		extendSessions,
		activeBreaks,
	}
	out := make([]Insight, 0, MaxRecommendations)
	for _, rule := range rules {
		if rec, ok := rule(sessions, now); ok {
			out = append(out, rec)
		}
		if len(out) == MaxRecommendations {
			break
		}
	}
	return out
}

func coreSubjectNeglect(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	totals := ComputeTotals(sessions)
	if totals.TotalMinutes == 0 {
		return Insight{}, false
	}
	var neglected []string
	for _, subject := range coreSubjects {
		if totals.SubjectBreakdown[string(subject)]*10 < totals.TotalMinutes*3 {
			neglected = append(neglected, string(subject))
		}
	}
	if len(neglected) == 0 {
		return Insight{}, false
	}
	return newInsight(TypeGoal, CategoryBalance, "Balance Your Study Focus",
		"You may want to spend more time on "+strings.Join(neglected, " and ")+" to keep your preparation balanced.",
		"Schedule 2-3 sessions this week focusing on "+neglected[0]), true
}

func studyFrequency(sessions []sessiondomain.Session, now time.Time) (Insight, bool) {
	from := now.Add(-week)
	recent := countWhere(sessions, func(s sessiondomain.Session) bool { return !s.Date.Before(from) })
	if recent >= 3 {
		return Insight{}, false
	}
	return newInsight(TypeGoal, CategoryFrequency, "Increase Study Frequency",
		"Consistent practice matters most. Aim for at least 4-5 study sessions per week.",
		"Block out 30-minute study slots in your calendar for the next week"), true
}

func optimizeLength(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	if AverageDuration(sessions) >= 45 {
		return Insight{}, false
	}
	return newInsight(TypeGoal, CategoryDuration, "Optimize Session Length",
		"Longer sessions of 45-90 minutes give better retention and deeper understanding.",
		"Combine two short topics into one longer, focused session"), true
}

func wholeDaysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

func practiceTestCadence(sessions []sessiondomain.Session, now time.Time) (Insight, bool) {
	oldest := sessions[0].Date
	var lastTest time.Time
	tests := 0
	for _, s := range sessions {
		if s.Date.Before(oldest) {
			oldest = s.Date
		}
		if s.Subject == sessiondomain.SubjectPracticeTest {
			tests++
			if s.Date.After(lastTest) {
				lastTest = s.Date
			}
		}
	}
	if tests == 0 {
		if wholeDaysSince(oldest, now) > 14 {
			return newInsight(TypeGoal, CategoryTesting, "Take a Practice Test",
				"After two weeks of study, a full-length practice test shows how far you've come.",
				"Schedule a 3.5-hour practice test session this weekend"), true
		}
		return Insight{}, false
	}
	if wholeDaysSince(lastTest, now) > 21 {
		return newInsight(TypeGoal, CategoryTesting, "Regular Practice Testing",
			"Take a practice test every 2-3 weeks to track progress and build test-taking stamina.",
			"Schedule your next full-length practice test"), true
	}
	return Insight{}, false
}

func scoreLevel(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	scored := scoredNewestFirst(sessions)
	if len(scored) < 5 {
		return Insight{}, false
	}
	avg := meanScore(scored)
	switch {
	case avg < 60:
		return newInsight(TypeGoal, CategoryPerformance, "Focus on Fundamentals",
			"Your scores suggest consolidating the basics before moving on to advanced topics.",
			"Review core concepts and practice easier problems before tackling complex questions"), true
	case avg > 80:
		return newInsight(TypeGoal, CategoryPerformance, "Challenge Yourself",
			"Your strong results show you're ready for harder material.",
			"Focus on 700+ level questions and advanced problem-solving techniques"), true
	default:
		return Insight{}, false
	}
}

func countWhere(sessions []sessiondomain.Session, match func(sessiondomain.Session) bool) int {
	n := 0
	for _, s := range sessions {
		if match(s) {
			n++
		}
	}
	return n
}

func extendSessions(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	short := countWhere(sessions, func(s sessiondomain.Session) bool { return s.Duration < 30 })
	if short*10 <= len(sessions)*6 {
		return Insight{}, false
	}
	return newInsight(TypeGoal, CategoryDuration, "Extend Study Sessions",
		"Many short sessions are often less effective than fewer, longer focused ones.",
		"Combine related topics into 60-90 minute study blocks"), true
}

func activeBreaks(sessions []sessiondomain.Session, _ time.Time) (Insight, bool) {
	long := countWhere(sessions, func(s sessiondomain.Session) bool { return s.Duration > 90 })
	if long*10 <= len(sessions)*3 {
		return Insight{}, false
	}
	return newInsight(TypeGoal, CategoryDuration, "Include Active Breaks",
		"Very long sessions bring diminishing returns. Breaks help you stay focused.",
		"Try the Pomodoro technique: 25 minutes of focused study, then a 5-minute break"), true
}
