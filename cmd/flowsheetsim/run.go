package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/processworks/flowsheet/flowsheet"
	"github.com/processworks/flowsheet/solver"
	"github.com/spf13/cobra"
)

var outputFile string

func init() {
	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the result report to this file instead of stdout")
}

var runCmd = &cobra.Command{
	Use:   "run <payload.json>",
	Short: "Solve a flowsheet payload and report the result.",
	Long: "run parses a flowsheet JSON payload, builds the process graph, runs the " +
		"iteration driver to convergence (or the configured iteration cap), and " +
		"writes the result report as JSON.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelErr(runSolve(args[0]))
	},
}

func runSolve(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	payload, err := flowsheet.ParsePayload(raw)
	if err != nil {
		return err
	}
	fs, err := flowsheet.Build(payload)
	if err != nil {
		return err
	}

	opts := solver.Options{
		MaxIterations: Cfg.Solver.MaxIterations,
		Tolerance:     Cfg.Solver.Tolerance,
		AmbientT:      Cfg.Defaults.AmbientTemperatureK,
		AmbientP:      Cfg.Defaults.AmbientPressurePa,
	}
	result := solver.Solve(context.Background(), fs, opts)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if outputFile == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(outputFile, out, 0o644)
}

func labelErr(err error) error {
	if err != nil {
		return fmt.Errorf("flowsheetsim: %w", err)
	}
	return nil
}
