// entry point to the eventhive command line client
package main

import (
	"os"

	"github.com/ds124wfegd/eventhive/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
