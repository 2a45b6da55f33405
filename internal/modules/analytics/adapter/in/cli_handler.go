package in

import (
	"context"

	analyticsdto "studytrack/internal/modules/analytics/dto"
	analyticsin "studytrack/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Stats(ctx context.Context) (analyticsdto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Streak(ctx context.Context) (analyticsdto.StreakOutput, error) {
	return h.usecase.Streak(ctx)
}

func (h CLIHandler) Weekly(ctx context.Context) ([]analyticsdto.WeekOutput, error) {
	return h.usecase.Weekly(ctx)
}

func (h CLIHandler) Goals(ctx context.Context) (analyticsdto.GoalsOutput, error) {
	return h.usecase.Goals(ctx)
}

func (h CLIHandler) Insights(ctx context.Context) ([]analyticsdto.InsightOutput, error) {
	return h.usecase.Insights(ctx)
}

func (h CLIHandler) Recommendations(ctx context.Context) ([]analyticsdto.InsightOutput, error) {
	return h.usecase.Recommendations(ctx)
}

func (h CLIHandler) Dashboard(ctx context.Context) (analyticsdto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}
