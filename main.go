package main

import (
	"fmt"
	"os"

	"github.com/tidycommit/tidycommit/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the tidycommit command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(cli.ResolveExitStatus(executionError))
	}
}
