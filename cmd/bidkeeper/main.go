package main

import (
	"os"

	"github.com/adfuel/bidkeeper/cmd/bidkeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
