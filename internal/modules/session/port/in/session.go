package in

import (
	"context"

	"studytrack/internal/modules/session/dto"
)

type Usecase interface {
	AddSession(ctx context.Context, input dto.AddSessionInput) (dto.SessionRecord, error)
	QuickAdd(ctx context.Context, preset string) (dto.SessionRecord, error)
	QuickPresets() []dto.QuickPreset
	DefaultDuration(subject string) int
	ListSessions(ctx context.Context) ([]dto.SessionRecord, error)
	ReplaceAll(ctx context.Context, sessions []dto.SessionRecord) error
	ClearAll(ctx context.Context) (dto.ClearOutput, error)
	Sync(ctx context.Context) (dto.SyncOutput, error)
}
