package in

import (
	"context"

	"studytrack/internal/modules/analytics/dto"
)

type Usecase interface {
	Stats(ctx context.Context) (dto.StatsOutput, error)
	Streak(ctx context.Context) (dto.StreakOutput, error)
	Weekly(ctx context.Context) ([]dto.WeekOutput, error)
	Goals(ctx context.Context) (dto.GoalsOutput, error)
	Insights(ctx context.Context) ([]dto.InsightOutput, error)
	Recommendations(ctx context.Context) ([]dto.InsightOutput, error)
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
}
