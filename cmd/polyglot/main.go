// Package main provides the polyglot CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/polyglot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
