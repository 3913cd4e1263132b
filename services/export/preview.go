package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"inceptiv/crenewsworker/internal/extract"
)

// Preview renders a compact table of records to w, truncating each cell
// to cellWidth terminal columns.
func Preview(w io.Writer, records []extract.ArticleRecord, cellWidth int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Date", "Region", "Asset Type", "Amount", "Sq Ft"})

	for i, r := range records {
		t.AppendRow(table.Row{
			i + 1,
			truncate(r.Title, cellWidth),
			truncate(r.PublishedDate, cellWidth),
			r.Region,
			r.AssetType,
			r.TransactionAmount,
			r.SquareFootage,
		})
	}
	t.AppendFooter(table.Row{"", "Total", len(records)})
	t.Render()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
