package cmd

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"inceptiv/crenewsworker/internal/crawler"
)

var sitesYAML bool

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the configured news sites",
	Long: `List the built-in sites together with any added or replaced by SITES_FILE.
With --yaml the table is printed in the SITES_FILE format, ready to edit.`,
	Args: cobra.NoArgs,
	RunE: runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
	sitesCmd.Flags().BoolVar(&sitesYAML, "yaml", false, "print the sites as a SITES_FILE document")
}

func runSites(cmd *cobra.Command, args []string) error {
	sites, err := crawler.LoadSites(appConfig.SitesFile)
	if err != nil {
		return err
	}

	if sitesYAML {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(map[string]interface{}{"sites": sites})
	}

	ids := make([]string, 0, len(sites))
	for id := range sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Provider", "Mode", "Base URL", "Categories"})
	for _, id := range ids {
		site := sites[id]
		categories := strings.Join(site.CategoryNames(), ", ")
		if categories == "" {
			categories = "-"
		}
		t.AppendRow(table.Row{id, site.Provider, site.Mode, site.BaseURL, categories})
	}
	t.Render()
	return nil
}
