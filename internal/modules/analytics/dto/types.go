package dto

type SubjectMinutes struct {
	Subject string `json:"subject"`
	Minutes int    `json:"minutes"`
}

type StatsOutput struct {
	TotalSessions        int              `json:"totalSessions"`
	TotalMinutes         int              `json:"totalMinutes"`
	TotalHours           float64          `json:"totalHours"`
	AverageSessionLength float64          `json:"averageSessionLength"`
	Subjects             []SubjectMinutes `json:"subjects"`
}

type StreakOutput struct {
	Current        int    `json:"current"`
	Longest        int    `json:"longest"`
	TotalStudyDays int    `json:"totalStudyDays"`
	LastStudyDate  string `json:"lastStudyDate,omitempty"`
	Badge          string `json:"badge"`
}

type WeekOutput struct {
	WeekStart    string   `json:"weekStart"`
	Sessions     int      `json:"sessions"`
	TotalMinutes int      `json:"totalMinutes"`
	Hours        float64  `json:"hours"`
	Subjects     []string `json:"subjects"`
}

type InsightOutput struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action,omitempty"`
}

type MilestoneOutput struct {
	Sessions int    `json:"sessions"`
	Title    string `json:"title"`
	Reward   string `json:"reward"`
}

type GoalsOutput struct {
	TodayMinutes   int              `json:"todayMinutes"`
	DailyGoal      int              `json:"dailyGoal"`
	DailyPercent   int              `json:"dailyPercent"`
	DailyMet       bool             `json:"dailyMet"`
	WeekMinutes    int              `json:"weekMinutes"`
	WeeklyGoal     int              `json:"weeklyGoal"`
	WeeklyPercent  int              `json:"weeklyPercent"`
	WeeklyMet      bool             `json:"weeklyMet"`
	Achieved       []string         `json:"achieved"`
	NextMilestone  *MilestoneOutput `json:"nextMilestone,omitempty"`
	SessionsToNext int              `json:"sessionsToNext,omitempty"`
}

// DashboardOutput is every derived view computed from one snapshot.
type DashboardOutput struct {
	Stats           StatsOutput     `json:"stats"`
	Streak          StreakOutput    `json:"streak"`
	Weekly          []WeekOutput    `json:"weekly"`
	Goals           GoalsOutput     `json:"goals"`
	Insights        []InsightOutput `json:"insights"`
	Recommendations []InsightOutput `json:"recommendations"`
}
