// Command sipri is a pricing calculator for small food businesses.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sipri/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// Command errors are already reported in the selected format.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
