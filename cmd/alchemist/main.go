// Command alchemist validates, filters, edits and exports the clients,
// workers and tasks spreadsheets of a resource-allocation plan.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/alchemist/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Findings and failed scenarios are already part of the output.
	var exitErr *cli.ExitError
	findings := errors.As(err, &exitErr) && exitErr.Code == cli.ExitFailure
	if !findings && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
