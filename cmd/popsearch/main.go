// Package main is the entry point for the popsearch daemon, CLI and
// window content.
package main

import (
	"os"

	"github.com/popsearch/popsearch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
