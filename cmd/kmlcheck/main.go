// Command kmlcheck inspects KML layers and runs point queries against them
// from the shell.
package main

import (
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
