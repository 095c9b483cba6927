// Package main is the entry point for the compass CLI.
package main

import (
	"os"

	"github.com/careercompass/compass-web/cmd/compass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
