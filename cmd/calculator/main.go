package main

import (
	"os"

	"lovecalc/cmd/calculator/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
