package in

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	settingsdto "studytrack/internal/modules/settings/dto"
	settingsin "studytrack/internal/modules/settings/port/in"
	apperrors "studytrack/internal/platform/errors"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (settingsdto.Settings, error) {
	return h.usecase.Get(ctx)
}

type setter func(*settingsdto.UpdateInput, string) error

var setters = map[string]setter{
	"theme":                  func(in *settingsdto.UpdateInput, v string) error { in.Theme = &v; return nil },
	"notifications":          boolSetter(func(in *settingsdto.UpdateInput, b *bool) { in.Notifications = b }),
	"syncEnabled":            boolSetter(func(in *settingsdto.UpdateInput, b *bool) { in.SyncEnabled = b }),
	"badgeEnabled":           boolSetter(func(in *settingsdto.UpdateInput, b *bool) { in.BadgeEnabled = b }),
	"dailyGoal":              intSetter(func(in *settingsdto.UpdateInput, n *int) { in.DailyGoal = n }),
	"weeklyGoal":             intSetter(func(in *settingsdto.UpdateInput, n *int) { in.WeeklyGoal = n }),
	"preferredSessionLength": intSetter(func(in *settingsdto.UpdateInput, n *int) { in.PreferredSessionLength = n }),
	"reminderTime":           func(in *settingsdto.UpdateInput, v string) error { in.ReminderTime = &v; return nil },
}

func boolSetter(assign func(*settingsdto.UpdateInput, *bool)) setter {
	return func(in *settingsdto.UpdateInput, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", apperrors.ErrValidation, v)
		}
		assign(in, &b)
		return nil
	}
}

func intSetter(assign func(*settingsdto.UpdateInput, *int)) setter {
	return func(in *settingsdto.UpdateInput, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %q is not a whole number", apperrors.ErrValidation, v)
		}
		assign(in, &n)
		return nil
	}
}

// Keys lists the settable keys in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set changes one setting by name, as typed on the command line.
func (h CLIHandler) Set(ctx context.Context, key, value string) (settingsdto.Settings, error) {
	for name, set := range setters {
		if !strings.EqualFold(name, key) {
			continue
		}
		var input settingsdto.UpdateInput
		if err := set(&input, strings.TrimSpace(value)); err != nil {
			return settingsdto.Settings{}, err
		}
		return h.usecase.Update(ctx, input)
	}
	return settingsdto.Settings{}, fmt.Errorf("%w: unknown setting %q (valid: %s)", apperrors.ErrValidation, key, strings.Join(Keys(), ", "))
}
