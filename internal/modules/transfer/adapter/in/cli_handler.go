package in

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	transferdto "studytrack/internal/modules/transfer/dto"
	transferin "studytrack/internal/modules/transfer/port/in"
	apperrors "studytrack/internal/platform/errors"
)

type CLIHandler struct {
	usecase transferin.Usecase
}

func NewCLIHandler(usecase transferin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Export writes the export into dir under its default name, or to out when
// target is "-". It returns the written path.
func (h CLIHandler) Export(ctx context.Context, format, target string, out io.Writer) (string, error) {
	export, err := h.usecase.Export(ctx, transferdto.ExportInput{Format: format})
	if err != nil {
		return "", err
	}
	if target == "-" {
		if _, err := out.Write(export.Content); err != nil {
			return "", fmt.Errorf("write export: %w", err)
		}
		return "-", nil
	}
	path := target
	if path == "" {
		path = export.FileName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.FileName)
	}
	if err := os.WriteFile(path, export.Content, 0o644); err != nil {
		return "", fmt.Errorf("%w: write export: %w", apperrors.ErrStorage, err)
	}
	return path, nil
}

// Import reads a document from path, or from in when path is "-".
func (h CLIHandler) Import(ctx context.Context, path string, in io.Reader) (transferdto.ImportOutput, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(in)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return transferdto.ImportOutput{}, fmt.Errorf("read import document: %w", err)
	}
	return h.usecase.Import(ctx, transferdto.ImportInput{Document: raw})
}

func (h CLIHandler) Formats() []string {
	return h.usecase.Formats()
}
