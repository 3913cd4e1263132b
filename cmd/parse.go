package cmd

import (
	"github.com/spf13/cobra"

	"inceptiv/crenewsworker/internal/crawler"
	"inceptiv/crenewsworker/internal/extract"
)

var (
	parseSite    string
	parseOutput  string
	parsePreview bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <dir>",
	Short: "Extract records from saved HTML pages",
	Long: `Parse reads every .html file of a snapshot directory (see SNAPSHOT_DIR)
in file name order, extracts the records with the site's selectors and
writes them to a .csv or .xlsx file. Record URLs come from the directory's
index.json, or are the file paths for files that are not indexed.

Example:
  crenewsworker parse ./snapshots --site commercialsearch -o articles.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseSite, "site", "commercialsearch", "site whose selectors to use")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "scraped_data.csv", "output file (.csv or .xlsx)")
	parseCmd.Flags().BoolVar(&parsePreview, "preview", false, "print a table of the records")
}

func runParse(cmd *cobra.Command, args []string) error {
	site, err := lookupSite(parseSite)
	if err != nil {
		return err
	}

	records, err := crawler.ParseDirectory(args[0], site, extract.DefaultHeuristics())
	if err != nil {
		return err
	}

	return writeRecords(cmd, records, parseOutput, parsePreview)
}
