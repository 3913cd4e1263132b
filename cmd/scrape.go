package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"inceptiv/crenewsworker/internal/crawler"
	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/logger"
	"inceptiv/crenewsworker/services/cache"
	"inceptiv/crenewsworker/services/export"
)

var (
	scrapeSite     string
	scrapeCategory string
	scrapePages    int
	scrapeOutput   string
	scrapePreview  bool
)

// previewWidth is the widest a preview cell may render.
const previewWidth = 48

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a site category and export the records",
	Long: `Scrape fetches the listing pages of a site category, extracts a record
per article and writes them to a .csv or .xlsx file.

Example:
  crenewsworker scrape --site commercialsearch --category industrial --pages 3 -o industrial.xlsx
  crenewsworker scrape --site traded --pages 2 -o traded.csv --preview`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeSite, "site", "commercialsearch", "site ID (see 'sites')")
	scrapeCmd.Flags().StringVar(&scrapeCategory, "category", "", "site category; empty for sites without categories")
	scrapeCmd.Flags().IntVar(&scrapePages, "pages", 1, "number of listing pages to scrape")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "scraped_data.csv", "output file (.csv or .xlsx)")
	scrapeCmd.Flags().BoolVar(&scrapePreview, "preview", false, "print a table of the records")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if scrapePages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", scrapePages)
	}
	if _, err := export.FormatFromPath(scrapeOutput); err != nil {
		return err
	}

	site, err := lookupSite(scrapeSite)
	if err != nil {
		return err
	}

	deps, err := crawler.NewDeps(appConfig, cache.New(appConfig.MemcacheAddr, appConfig.PageCacheTTL))
	if err != nil {
		return err
	}

	c, err := crawler.NewSiteCrawler(site, scrapeCategory, scrapePages, deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := c.FetchArticles(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("Interrupted, exporting %d records gathered so far", len(records))
	}

	return writeRecords(cmd, records, scrapeOutput, scrapePreview)
}

// lookupSite returns the site with id from the configured sites table.
func lookupSite(id string) (crawler.SiteConfig, error) {
	sites, err := crawler.LoadSites(appConfig.SitesFile)
	if err != nil {
		return crawler.SiteConfig{}, err
	}
	site, ok := sites[id]
	if !ok {
		return crawler.SiteConfig{}, fmt.Errorf("unknown site %q, run 'sites' to list them", id)
	}
	return site, nil
}

func writeRecords(cmd *cobra.Command, records []extract.ArticleRecord, output string, preview bool) error {
	if err := export.WriteFile(output, records); err != nil {
		return err
	}
	if preview {
		export.Preview(cmd.OutOrStdout(), records, previewWidth)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(records), output)
	return nil
}
