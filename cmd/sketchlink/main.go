// Package main provides the sketchlink command.
package main

import (
	"os"

	"github.com/leapstack-labs/sketchlink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
