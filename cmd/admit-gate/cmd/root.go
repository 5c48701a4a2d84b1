// Package cmd provides the CLI commands for admit-gate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sentinel-Gate/admitgate/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "admit-gate",
	Short: "admit-gate - clinical admission criteria evaluator",
	Long: `admit-gate evaluates a fixed set of clinical admission criteria against an
admission policy and prints a recommendation with the criteria that were met
and the criteria that could not be assessed.

Each criterion is true (met), false (not met) or null/omitted (unknown).
Unknown criteria are reported as missing and never count as not met.

Quick start:
  admit-gate criteria
  admit-gate evaluate --input patient.json

Configuration:
  Config is loaded from admit-gate.yaml in the current directory,
  $HOME/.admit-gate/, or /etc/admit-gate/.

  Environment variables can override config values with the ADMIT_GATE_ prefix.
  Example: ADMIT_GATE_OUTPUT_FORMAT=json

Commands:
  evaluate    Evaluate one criteria file
  criteria    List the criteria of the active policy
  policy      Validate custom policy files
  serve       Serve evaluation as an MCP tool over stdio
  version     Print version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Input errors exit with a code per kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./admit-gate.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")
	flags.String("policy", "", "custom policy catalog (YAML); default is the built-in MCG sepsis policy")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("policy.file", flags.Lookup("policy"))
}

func initConfig() {
	config.InitViper(cfgFile)
}
