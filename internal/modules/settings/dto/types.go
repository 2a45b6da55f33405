package dto

import "time"

type Settings struct {
	Theme                  string    `json:"theme"`
	Notifications          bool      `json:"notifications"`
	SyncEnabled            bool      `json:"syncEnabled"`
	DailyGoal              int       `json:"dailyGoal"`
	WeeklyGoal             int       `json:"weeklyGoal"`
	ReminderTime           string    `json:"reminderTime"`
	PreferredSessionLength int       `json:"preferredSessionLength"`
	BadgeEnabled           bool      `json:"badgeEnabled"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type UpdateInput struct {
	Theme                  *string
	Notifications          *bool
	SyncEnabled            *bool
	DailyGoal              *int
	WeeklyGoal             *int
	ReminderTime           *string
	PreferredSessionLength *int
	BadgeEnabled           *bool
}
