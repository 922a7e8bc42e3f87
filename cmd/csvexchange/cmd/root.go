package cmd

import (
	"fmt"
	"os"

	"golang-csv-exchange-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "csvexchange",
	Short: "CSV transaction import and export tool",
	Long: `Csvexchange ingests loosely-structured CSV files describing financial
transactions into a validated store, and serializes stored transactions
back to CSV for a bounded date range.

Examples:
  csvexchange import --file transactions.csv
  csvexchange import --file export.csv --header present --store postgres
  csvexchange export --format csv --date-range month
  csvexchange export --date-range custom --start-date 2024-01-01 --end-date 2024-01-31`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	viper.SetEnvPrefix("CSVEXCHANGE")
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		if log, err := logger.NewLogger(logger.DebugConfig()); err == nil {
			logger.SetGlobalLogger(log)
		}
	}
}

// stringFlagOrViper resolves a string setting: an explicitly passed flag
// wins, otherwise a config-file or environment value, otherwise the flag
// default.
func stringFlagOrViper(cmd *cobra.Command, name, current string) string {
	if cmd.Flags().Changed(name) {
		return current
	}
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	return current
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
