package main

import (
	"os"

	"github.com/bobmcallan/tradejournal/cmd/tradejournal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
