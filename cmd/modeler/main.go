// Package main is the entry point for the modeler CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/modeler/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
