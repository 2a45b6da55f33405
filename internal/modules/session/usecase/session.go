package usecase

import (
	"context"
	"fmt"
	"strings"

	"studytrack/internal/modules/session/domain"
	sessiondto "studytrack/internal/modules/session/dto"
	sessionin "studytrack/internal/modules/session/port/in"
	"studytrack/internal/modules/session/service"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
)

type Interactor struct {
	svc   *service.SessionService
	clock clock.Clock
}

func NewInteractor(svc *service.SessionService, clk clock.Clock) sessionin.Usecase {
	return &Interactor{svc: svc, clock: clk}
}

func (i *Interactor) AddSession(ctx context.Context, input sessiondto.AddSessionInput) (sessiondto.SessionRecord, error) {
	draft := domain.Session{
		Timestamp:  input.Timestamp,
		Subject:    domain.Subject(strings.TrimSpace(input.Subject)),
		Duration:   input.Duration,
		Topic:      strings.TrimSpace(input.Topic),
		Score:      input.Score,
		Notes:      strings.TrimSpace(input.Notes),
		Difficulty: strings.TrimSpace(input.Difficulty),
		Tags:       input.Tags,
		Source:     domain.Source(input.Source),
	}
	if strings.TrimSpace(input.Date) != "" {
		date, err := domain.ParseDate(strings.TrimSpace(input.Date), i.clock.Now().Location())
		if err != nil {
			return sessiondto.SessionRecord{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		draft.Date = date
	}
	session, err := i.svc.Add(ctx, draft)
	if err != nil {
		return sessiondto.SessionRecord{}, err
	}
	return toRecord(session), nil
}

func (i *Interactor) QuickAdd(ctx context.Context, preset string) (sessiondto.SessionRecord, error) {
	p, ok := domain.LookupPreset(preset)
	if !ok {
		return sessiondto.SessionRecord{}, fmt.Errorf("%w: unknown preset %q", apperrors.ErrNotFound, preset)
	}
	return i.AddSession(ctx, sessiondto.AddSessionInput{Subject: string(p.Subject), Duration: p.Duration})
}

func (i *Interactor) QuickPresets() []sessiondto.QuickPreset {
	out := make([]sessiondto.QuickPreset, 0, len(domain.QuickPresets))
	for _, p := range domain.QuickPresets {
		out = append(out, sessiondto.QuickPreset{Key: p.Key, Label: p.Label, Subject: string(p.Subject), Duration: p.Duration})
	}
	return out
}

func (i *Interactor) DefaultDuration(subject string) int {
	return domain.DefaultDuration(domain.Subject(subject))
}

func (i *Interactor) ListSessions(ctx context.Context) ([]sessiondto.SessionRecord, error) {
	sessions, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(sessions), nil
}

func (i *Interactor) ReplaceAll(ctx context.Context, records []sessiondto.SessionRecord) error {
	return i.svc.ReplaceAll(ctx, fromRecords(records))
}

func (i *Interactor) ClearAll(ctx context.Context) (sessiondto.ClearOutput, error) {
	cleared, err := i.svc.ClearAll(ctx)
	return sessiondto.ClearOutput{Cleared: backendNames(cleared)}, err
}

func (i *Interactor) Sync(ctx context.Context) (sessiondto.SyncOutput, error) {
	result, err := i.svc.Sync(ctx)
	if err != nil {
		return sessiondto.SyncOutput{}, err
	}
	return sessiondto.SyncOutput{
		Sessions:    len(result.Sessions),
		Written:     backendNames(result.Written),
		Stale:       backendNames(result.Stale),
		Unavailable: backendNames(result.Unavailable),
		Changed:     result.Changed,
	}, nil
}

func backendNames(backends []domain.Backend) []string {
	out := make([]string, 0, len(backends))
	for _, b := range backends {
		out = append(out, string(b))
	}
	return out
}
