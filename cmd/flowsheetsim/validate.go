package main

import (
	"fmt"
	"os"

	"github.com/processworks/flowsheet/flowsheet"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <payload.json>",
	Short: "Check a flowsheet payload without solving it.",
	Long: "validate parses and builds a flowsheet payload, reporting any build " +
		"warnings (skipped units, dropped feeds, unresolved components) without " +
		"running the iteration driver.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelErr(runValidate(args[0]))
	},
}

func runValidate(path string) error {
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

	fmt.Printf("%s: %d units, %d streams, %d connections\n", fs.Name, len(fs.Units), len(fs.Streams), len(fs.Connections))
	if len(fs.Warnings) == 0 {
		fmt.Println("no warnings")
		return nil
	}
	for _, w := range fs.Warnings {
		fmt.Println("warning:", w)
	}
	return nil
}
