package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// Writer writes run reports into one output directory
type Writer struct {
	dir    string
	logger *logger.Logger
}

// NewWriter creates a writer for dir
func NewWriter(dir string, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.Nop()
	}
	return &Writer{dir: dir, logger: log.Component("export.writer")}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// WriteAll writes the JSON and XLSX reports and returns their paths
func (w *Writer) WriteAll(ctx context.Context, report *Report) ([]string, error) {
	jsonPath, err := w.WriteJSON(ctx, report)
	if err != nil {
		return nil, err
	}
	xlsxPath, err := w.WriteXLSX(ctx, report)
	if err != nil {
		return nil, err
	}
	return []string{jsonPath, xlsxPath}, nil
}

// WriteJSON writes the full report as indented JSON
func (w *Writer) WriteJSON(ctx context.Context, report *Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(w.dir, baseName(report)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	}).Info("JSON report written")

	return path, nil
}

func baseName(report *Report) string {
	if report.RunID == "" {
		return "analyse_dvf"
	}
	return "analyse_" + report.RunID
}
