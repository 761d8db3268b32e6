// Package main provides the stormwater permit classifier CLI.
package main

import (
	"os"

	"github.com/jceal/stormwater-classifier/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
