package usecase

import (
	"context"

	"go.uber.org/zap"

	"studytrack/internal/modules/transfer/domain"
	transferdto "studytrack/internal/modules/transfer/dto"
	transferin "studytrack/internal/modules/transfer/port/in"
	transferout "studytrack/internal/modules/transfer/port/out"
	"studytrack/internal/modules/transfer/service"
)

type Interactor struct {
	svc    *service.TransferService
	store  transferout.SessionStore
	logger *zap.Logger
}

func NewInteractor(svc *service.TransferService, store transferout.SessionStore, logger *zap.Logger) transferin.Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{svc: svc, store: store, logger: logger}
}

func (i *Interactor) Export(ctx context.Context, input transferdto.ExportInput) (transferdto.ExportOutput, error) {
	format, err := domain.ParseFormat(input.Format)
	if err != nil {
		return transferdto.ExportOutput{}, err
	}
	sessions, err := i.store.Sessions(ctx)
	if err != nil {
		return transferdto.ExportOutput{}, err
	}
	export, err := i.svc.Export(sessions, format)
	if err != nil {
		return transferdto.ExportOutput{}, err
	}
	return transferdto.ExportOutput{
		FileName: export.FileName,
		Format:   string(export.Format),
		Content:  export.Content,
		Sessions: export.Sessions,
	}, nil
}

// Import applies nothing unless the whole merged set is persisted.
func (i *Interactor) Import(ctx context.Context, input transferdto.ImportInput) (transferdto.ImportOutput, error) {
	existing, err := i.store.Sessions(ctx)
	if err != nil {
		return transferdto.ImportOutput{}, err
	}
	result, err := i.svc.Import(input.Document, existing)
	if err != nil {
		return transferdto.ImportOutput{}, err
	}
	if result.Imported > 0 {
		if err := i.store.ReplaceAll(ctx, result.Merged); err != nil {
			return transferdto.ImportOutput{}, err
		}
		if err := i.store.Sync(ctx); err != nil {
			i.logger.Warn("reconciliation after import failed", zap.Error(err))
		}
	}
	i.logger.Info("import finished", zap.Int("imported", result.Imported), zap.Int("total", len(result.Merged)))
	return transferdto.ImportOutput{Imported: result.Imported, Total: len(result.Merged)}, nil
}

func (i *Interactor) Formats() []string {
	out := make([]string, 0, len(domain.Formats))
	for _, f := range domain.Formats {
		out = append(out, string(f))
	}
	return out
}
