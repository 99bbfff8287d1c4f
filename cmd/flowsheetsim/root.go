package main

import (
	"fmt"

	"github.com/processworks/flowsheet/config"
	"github.com/spf13/cobra"
)

var (
	configFile string

	// Cfg holds the solver tunables loaded once at startup, by any subcommand.
	Cfg *config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "flowsheetsim",
	Short: "A steady-state chemical process flowsheet simulator.",
	Long: `flowsheetsim solves a sequential-modular flowsheet of unit operations and
streams to convergence, reporting stream properties and unit duties.
Use the subcommands below to run or validate a flowsheet payload.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		Cfg, err = config.Load(configFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "solver configuration TOML file (optional; built-in defaults apply otherwise)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("flowsheetsim v0.1.0")
	},
}
