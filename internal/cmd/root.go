// Package cmd assembles the ensemble command-line interface: it parses
// flags and configuration, builds the requested plugin factories, and hands
// them to the supervisor.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ensemble-cli/ensemble/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Compose plugins into one cooperatively-supervised process",
	Long: `Ensemble runs independently-authored plugins, each contributing a
long-running background activity, as one process. Plugins exchange state
through a shared broadcast hub and are torn down together when any one of
them finishes, fails, or the process is interrupted.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept underscores in flag names as spelled in the config file
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/ensemble/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level threshold (DEBUG, INFO, WARN, ERROR)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/ensemble")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ENSEMBLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
