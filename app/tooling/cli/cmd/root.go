// Package cmd contains the ledger cli commands.
package cmd

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Talk to a ledger node or run the ledger in process",
}

func init() {
	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8080", "Url of the node.")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		pterm.Error.Printfln("binding flags: %s", err)
	}

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.ledger")

	viper.SetEnvPrefix("ledger")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() {
	if err := viper.ReadInConfig(); err == nil {
		pterm.Info.Printfln("Using config file %s", viper.ConfigFileUsed())
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// client returns a client for the node configured by flag, env or file.
func client() *Client {
	return NewClient(viper.GetString("url"))
}
