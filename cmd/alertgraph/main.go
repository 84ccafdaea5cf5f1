package main

import (
	"os"

	"alertgraph/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "alertgraph: %v\n", err)
		os.Exit(1)
	}
}
