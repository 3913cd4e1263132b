package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the configuration after applying defaults, the config file and environment variables.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if file := v.ConfigFileUsed(); file != "" {
			fmt.Fprintf(out, "# config file: %s\n", file)
		}

		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
