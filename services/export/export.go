package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/logger"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", apperrors.NewExport(fmt.Sprintf("unsupported export file %q, use .csv or .xlsx", path), nil)
	}
}

// WriteFile writes records to path in the format implied by its extension.
func WriteFile(path string, records []extract.ArticleRecord) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewExport("create "+path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = apperrors.NewExport("close "+path, closeErr)
		}
	}()

	if err := Write(f, format, records); err != nil {
		return err
	}

	logger.ForExport().Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("Export written")
	return nil
}

// Write encodes records to w.
func Write(w io.Writer, format Format, records []extract.ArticleRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return apperrors.NewExport(fmt.Sprintf("unsupported format %q", format), nil)
	}
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []extract.ArticleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(extract.Columns); err != nil {
		return apperrors.NewExport("write csv header", err)
	}
	for _, record := range records {
		if err := cw.Write(record.Row()); err != nil {
			return apperrors.NewExport("write csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewExport("flush csv", err)
	}
	return nil
}
