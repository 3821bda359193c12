package main

import (
	"os"

	"github.com/ensemble-cli/ensemble/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
