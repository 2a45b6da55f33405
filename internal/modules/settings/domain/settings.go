package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "studytrack/internal/platform/errors"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

const reminderLayout = "15:04"

// Settings is one learner's preferences. Records are not versioned; the one
// with the latest UpdatedAt wins.
type Settings struct {
	Theme                  Theme     `json:"theme" validate:"oneof=light dark auto"`
	Notifications          bool      `json:"notifications"`
	SyncEnabled            bool      `json:"syncEnabled"`
	DailyGoal              int       `json:"dailyGoal" validate:"min=0,max=1440"`
	WeeklyGoal             int       `json:"weeklyGoal" validate:"min=0,max=10080"`
	ReminderTime           string    `json:"reminderTime" validate:"hhmm"`
	PreferredSessionLength int       `json:"preferredSessionLength" validate:"min=0,max=600"`
	BadgeEnabled           bool      `json:"badgeEnabled"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func Defaults() Settings {
	return Settings{
		Theme:                  ThemeLight,
		Notifications:          true,
		SyncEnabled:            true,
		DailyGoal:              60,
		WeeklyGoal:             420,
		ReminderTime:           "19:00",
		PreferredSessionLength: 45,
		BadgeEnabled:           true,
	}
}

// Reminder returns the reminder hour and minute.
func (s Settings) Reminder() (int, int, error) {
	t, err := time.Parse(reminderLayout, s.ReminderTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reminder time %q must be HH:MM", apperrors.ErrValidation, s.ReminderTime)
	}
	return t.Hour(), t.Minute(), nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		_, err := time.Parse(reminderLayout, value)
		return err == nil && len(value) == len(reminderLayout)
	})
	return v
}()

func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "hhmm":
			msgs = append(msgs, fmt.Sprintf("reminder time %q must be HH:MM", s.ReminderTime))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("theme must be one of light, dark, auto, got %q", s.Theme))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must be between 0 and %s", lowerFirst(fe.Field()), maxFor(fe)))
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func maxFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "DailyGoal":
		return "1440"
	case "WeeklyGoal":
		return "10080"
	default:
		return "600"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Patch carries the fields to change; nil fields are left alone.
type Patch struct {
	Theme                  *Theme
	Notifications          *bool
	SyncEnabled            *bool
	DailyGoal              *int
	WeeklyGoal             *int
	ReminderTime           *string
	PreferredSessionLength *int
	BadgeEnabled           *bool
}

func (s Settings) Apply(p Patch) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.SyncEnabled != nil {
		s.SyncEnabled = *p.SyncEnabled
	}
	if p.DailyGoal != nil {
		s.DailyGoal = *p.DailyGoal
	}
	if p.WeeklyGoal != nil {
		s.WeeklyGoal = *p.WeeklyGoal
	}
	if p.ReminderTime != nil {
		s.ReminderTime = *p.ReminderTime
	}
	if p.PreferredSessionLength != nil {
		s.PreferredSessionLength = *p.PreferredSessionLength
	}
	if p.BadgeEnabled != nil {
		s.BadgeEnabled = *p.BadgeEnabled
	}
	return s
}

// Latest picks the record with the newest UpdatedAt; ties keep the earlier candidate.
func Latest(candidates ...Settings) (Settings, bool) {
	if len(candidates) == 0 {
		return Settings{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.UpdatedAt.After(best.UpdatedAt) {
			best = c
		}
	}
	return best, true
}
