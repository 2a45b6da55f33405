package in

import (
	"context"

	sessiondto "studytrack/internal/modules/session/dto"
	sessionin "studytrack/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Add logs a session. A zero duration falls back to the subject's default length.
func (h CLIHandler) Add(ctx context.Context, input sessiondto.AddSessionInput) (sessiondto.SessionRecord, error) {
	if input.Duration == 0 {
		input.Duration = h.usecase.DefaultDuration(input.Subject)
	}
	return h.usecase.AddSession(ctx, input)
}

func (h CLIHandler) Quick(ctx context.Context, preset string) (sessiondto.SessionRecord, error) {
	return h.usecase.QuickAdd(ctx, preset)
}

func (h CLIHandler) Presets() []sessiondto.QuickPreset {
	return h.usecase.QuickPresets()
}

// List returns at most limit sessions, newest first. limit <= 0 returns all.
func (h CLIHandler) List(ctx context.Context, limit int) ([]sessiondto.SessionRecord, error) {
	sessions, err := h.usecase.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (h CLIHandler) Clear(ctx context.Context) (sessiondto.ClearOutput, error) {
	return h.usecase.ClearAll(ctx)
}

func (h CLIHandler) Sync(ctx context.Context) (sessiondto.SyncOutput, error) {
	return h.usecase.Sync(ctx)
}
