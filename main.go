package main

import (
	"os"

	"github.com/rsambing/smart-tour/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
