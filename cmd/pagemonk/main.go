package main

import (
	"os"

	"github.com/pagemonk/pagemonk/cmd/pagemonk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
