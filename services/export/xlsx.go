package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"inceptiv/crenewsworker/internal/extract"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// SheetName is the worksheet the records are written to.
const SheetName = "Articles"

// WriteXLSX writes the records as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []extract.ArticleRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return apperrors.NewExport("name sheet", err)
	}

	header := extract.Columns
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return apperrors.NewExport("write xlsx header", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewExport("xlsx cell", err)
		}
		row := record.Row()
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return apperrors.NewExport("write xlsx row", err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return apperrors.NewExport("freeze header", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return apperrors.NewExport("write xlsx", err)
	}
	return nil
}
