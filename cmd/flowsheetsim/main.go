// Command flowsheetsim is the command-line interface for the flowsheet
// simulator: it reads a JSON flowsheet payload, builds and solves it, and
// writes the result report to stdout or a file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
