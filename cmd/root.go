package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"inceptiv/crenewsworker/config"
	"inceptiv/crenewsworker/logger"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

var (
	cfgFile string
	verbose bool

	v         = viper.New()
	appConfig *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crenewsworker",
	Short: "Commercial real-estate news scraper and worker",
	Long: `crenewsworker scrapes commercial real-estate news sites, extracts one
record per article (title, date, tags, region, asset type, intro, companies,
transaction amount, square footage, location descriptors) and writes the
records to CSV or XLSX, or publishes them to Redis or Kafka as a worker.

Configuration hierarchy (highest to lowest priority):
1. Environment variables (REQUEST_DELAY, REDIS_ADDR, ...)
2. Config file (--config)
3. Defaults`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log the effective configuration")
}

// loadConfig reads the optional config file and validates the result.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.NewConfiguration("read config file "+cfgFile, err)
		}
	}

	cfg := config.LoadConfig(v)
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	if verbose {
		logger.Info("Configuration loaded (file: %q, environment: %s, request delay: %s, publisher: %s)",
			v.ConfigFileUsed(), cfg.Environment, cfg.RequestDelay, cfg.Publisher)
	}
	return nil
}
