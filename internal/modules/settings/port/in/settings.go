package in

import (
	"context"

	"studytrack/internal/modules/settings/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.Settings, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.Settings, error)
}
